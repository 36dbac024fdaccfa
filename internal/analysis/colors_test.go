package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorName(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"#c82828", "red"},
		{"#32c846", "green"},
		{"#000080", "navy"},
		{"#f5f5f5", "white"},
		{"#e1ad01", "mustard"},
		{"#141414", "black"},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorName(tt.hex))
		})
	}
}

func TestColorName_HexFallback(t *testing.T) {
	// Nothing in the table sits near saturated magenta.
	assert.Equal(t, "#ff00ff", ColorName("#ff00ff"))
}

func TestColorName_MalformedInputReturnedAsIs(t *testing.T) {
	assert.Equal(t, "nonsense", ColorName("nonsense"))
	assert.Equal(t, "#12345", ColorName("#12345"))
	assert.Equal(t, "#zzzzzz", ColorName("#zzzzzz"))
}

func TestOutfitSuggestions(t *testing.T) {
	got := OutfitSuggestions("casual", []string{"minimalist"}, []string{"navy", "cream"})

	assert.Len(t, got, 3)
	assert.Contains(t, got[0], "casual")
	assert.Contains(t, got[0], "navy")
	assert.Contains(t, got[0], "cream")
	assert.Contains(t, got[2], "minimalist")
}

func TestOutfitSuggestions_PadsMissingInputs(t *testing.T) {
	got := OutfitSuggestions("street", nil, nil)

	assert.Len(t, got, 3)
	for _, s := range got {
		assert.NotContains(t, s, "{{")
	}
	assert.Contains(t, got[0], "neutral")
	assert.Contains(t, got[2], "street")
}
