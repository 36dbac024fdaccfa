package palette

import (
	"image"
	"image/color"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func solidPixels(p Pixel, n int) []Pixel {
	out := make([]Pixel, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func TestDominantColors_ReturnsKHexStrings(t *testing.T) {
	pixels := append(solidPixels(Pixel{200, 40, 40}, 50), solidPixels(Pixel{40, 40, 200}, 50)...)

	colors := DominantColors(pixels, 3)
	require.Len(t, colors, 3)
	for _, c := range colors {
		assert.Regexp(t, hexPattern, c)
	}
}

func TestDominantColors_Deterministic(t *testing.T) {
	pixels := []Pixel{
		{200, 40, 40}, {190, 50, 45}, {40, 40, 200}, {45, 35, 210},
		{120, 120, 120}, {130, 125, 118}, {200, 45, 38}, {50, 40, 190},
	}

	first := DominantColors(pixels, 3)
	second := DominantColors(pixels, 3)
	assert.Equal(t, first, second)
}

func TestDominantColors_FindsWellSeparatedClusters(t *testing.T) {
	red := Pixel{200, 30, 30}
	blue := Pixel{30, 30, 200}
	// Interleave so the first two pixels (the deterministic seeds) land in
	// different clusters.
	var pixels []Pixel
	for i := 0; i < 100; i++ {
		pixels = append(pixels, red, blue)
	}

	colors := DominantColors(pixels, 2)
	require.Len(t, colors, 2)
	assert.Equal(t, "#c81e1e", colors[0])
	assert.Equal(t, "#1e1ec8", colors[1])
}

func TestDominantColors_AllWhiteFilteredToDefaults(t *testing.T) {
	// A fully white image leaves no pixels after background filtering; the
	// unseeded centroids keep their zero value and format as black.
	pixels := solidPixels(Pixel{255, 255, 255}, 16)

	colors := DominantColors(pixels, 3)
	require.Len(t, colors, 3)
	for _, c := range colors {
		assert.Equal(t, "#000000", c)
	}
}

func TestDominantColors_AllBlackDoesNotPanic(t *testing.T) {
	pixels := solidPixels(Pixel{0, 0, 0}, 4) // 2x2 synthetic image

	assert.NotPanics(t, func() {
		colors := DominantColors(pixels, 3)
		require.Len(t, colors, 3)
		for _, c := range colors {
			assert.Regexp(t, hexPattern, c)
		}
	})
}

func TestDominantColors_FewerSurvivorsThanK(t *testing.T) {
	colors := DominantColors([]Pixel{{100, 100, 100}}, 3)
	require.Len(t, colors, 3)
	assert.Equal(t, "#646464", colors[0])
}

func TestDominantColors_NonPositiveK(t *testing.T) {
	assert.Empty(t, DominantColors(solidPixels(Pixel{100, 100, 100}, 4), 0))
	assert.Empty(t, DominantColors(nil, -1))
}

func TestFilterBackground(t *testing.T) {
	pixels := []Pixel{
		{255, 255, 255}, // white background
		{250, 240, 245}, // near-white (avg 245)
		{5, 5, 5},       // near-black (avg 5)
		{100, 120, 140}, // kept
	}
	survivors := filterBackground(pixels)
	require.Len(t, survivors, 1)
	assert.Equal(t, Pixel{100, 120, 140}, survivors[0])
}

func TestDownscale_PreservesAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2048, 1024))
	scaled := Downscale(img)

	assert.Equal(t, 1024, scaled.Bounds().Dx())
	assert.Equal(t, 512, scaled.Bounds().Dy())

	// Portrait orientation scales on the other axis.
	img = image.NewRGBA(image.Rect(0, 0, 500, 2000))
	scaled = Downscale(img)
	assert.Equal(t, 125, scaled.Bounds().Dx())
	assert.Equal(t, 1024, scaled.Bounds().Dy())
}

func TestDownscale_SmallImageUntouched(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	assert.Equal(t, img.Bounds(), Downscale(img).Bounds())
}

func TestSamplePixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	pixels := SamplePixels(img)
	require.Len(t, pixels, 4)
	assert.Equal(t, Pixel{10, 20, 30}, pixels[0])
	assert.Equal(t, Pixel{40, 50, 60}, pixels[1])
}
