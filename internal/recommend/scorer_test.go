package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumina/glow-platform/internal/domain"
)

func hydratingSerum() domain.Product {
	return domain.Product{
		ID:          "prod-hydrating-serum",
		Name:        "Hydrating Serum",
		Category:    "skincare",
		Price:       45.00,
		Rating:      4.8,
		SuitableFor: []string{"dry", "normal", "sensitive"},
		Benefits:    []string{"Deep hydration", "Plumper skin", "Reduced fine lines"},
		EcoFriendly: true,
	}
}

func TestScoreProduct_HydratingSerumScenario(t *testing.T) {
	prefs := domain.UserPreferences{
		SkinType:     domain.SkinTypeDry,
		BudgetTier:   domain.BudgetMid,
		EcoFriendly:  true,
		SkinConcerns: []string{"dryness"},
	}

	res := ScoreProduct(hydratingSerum(), prefs)

	// 30 (skin type) + 25 (price 45 in mid-range window) + 20 (eco)
	// + 0 (no substring match "dryness" <-> "Deep hydration") + 19.2 (rating)
	assert.InDelta(t, 94.2, res.Score, 0.001)
	assert.Contains(t, res.Reasons, "Perfect for dry skin")
	assert.Contains(t, res.Reasons, "Fits your budget")
	assert.Contains(t, res.Reasons, "Eco-friendly choice")
	assert.NotContains(t, res.Reason(), "Targets")
}

func TestScoreProduct_ConcernSubstringBothDirections(t *testing.T) {
	p := domain.Product{
		Name:     "Barrier Cream",
		Rating:   4.0,
		Benefits: []string{"Deep hydration", "Redness relief"},
	}

	// concern contained in benefit
	res := ScoreProduct(p, domain.UserPreferences{SkinConcerns: []string{"hydration"}})
	assert.Contains(t, res.Reasons, "Targets hydration")

	// benefit contained in concern
	res = ScoreProduct(p, domain.UserPreferences{SkinConcerns: []string{"deep hydration overnight"}})
	assert.Contains(t, res.Reasons, "Targets deep hydration overnight")

	// case-insensitive
	res = ScoreProduct(p, domain.UserPreferences{SkinConcerns: []string{"REDNESS"}})
	assert.Contains(t, res.Reasons, "Targets REDNESS")
}

func TestScoreProduct_ConcernBonusCapped(t *testing.T) {
	p := domain.Product{
		Name:     "Everything Elixir",
		Rating:   0,
		Benefits: []string{"hydration", "redness", "acne", "wrinkles", "dullness"},
	}
	prefs := domain.UserPreferences{
		SkinConcerns: []string{"hydration", "redness", "acne", "wrinkles", "dullness"},
	}

	res := ScoreProduct(p, prefs)

	// Five concerns match but the cumulative bonus stops at three.
	assert.InDelta(t, 45.0, res.Score, 0.001)
}

func TestScoreProduct_ClampUpperBound(t *testing.T) {
	p := domain.Product{
		Name:        "Maximal Cream",
		Price:       20,
		Rating:      5,
		SuitableFor: []string{"dry"},
		Benefits:    []string{"hydration", "redness", "acne"},
		EcoFriendly: true,
	}
	prefs := domain.UserPreferences{
		SkinType:     domain.SkinTypeDry,
		BudgetTier:   domain.BudgetBudget,
		EcoFriendly:  true,
		SkinConcerns: []string{"hydration", "redness", "acne"},
	}

	res := ScoreProduct(p, prefs)

	// 30+25+20+45+20 = 140 before the clamp.
	assert.Equal(t, 100.0, res.Score)
}

func TestScoreProduct_RangeInvariant(t *testing.T) {
	products := []domain.Product{
		{},
		{Price: 500, Rating: 5},
		hydratingSerum(),
		{Price: 1, Rating: 0.5, Benefits: []string{"a"}},
	}
	prefsList := []domain.UserPreferences{
		{},
		{SkinType: domain.SkinTypeOily, BudgetTier: domain.BudgetLuxury},
		{SkinType: domain.SkinTypeDry, BudgetTier: domain.BudgetBudget, EcoFriendly: true,
			SkinConcerns: []string{"a", "b", "c", "d", "e", "f"}},
	}

	for _, p := range products {
		for _, prefs := range prefsList {
			res := ScoreProduct(p, prefs)
			assert.GreaterOrEqual(t, res.Score, 0.0)
			assert.LessOrEqual(t, res.Score, 100.0)
		}
	}
}

func TestScoreProduct_Deterministic(t *testing.T) {
	prefs := domain.UserPreferences{
		SkinType:     domain.SkinTypeDry,
		BudgetTier:   domain.BudgetMid,
		SkinConcerns: []string{"hydration"},
	}
	first := ScoreProduct(hydratingSerum(), prefs)
	second := ScoreProduct(hydratingSerum(), prefs)
	assert.Equal(t, first, second)
}

func TestScoreProduct_FallbackReason(t *testing.T) {
	res := ScoreProduct(domain.Product{Name: "Plain Soap", Rating: 3}, domain.UserPreferences{})
	assert.Empty(t, res.Reasons)
	assert.Equal(t, fallbackReason, res.Reason())
}

func TestBudgetScore(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		tier  domain.BudgetTier
		want  float64
	}{
		{"budget under threshold", 20, domain.BudgetBudget, 25},
		{"budget at threshold", 25, domain.BudgetBudget, 25},
		{"budget progressive penalty", 45, domain.BudgetBudget, 15},
		{"budget floor", 200, domain.BudgetBudget, 0},
		{"mid in window", 45, domain.BudgetMid, 25},
		{"mid window edges", 20, domain.BudgetMid, 25},
		{"mid below window", 10, domain.BudgetMid, 15},
		{"mid above window", 70, domain.BudgetMid, 20},
		{"luxury at threshold", 50, domain.BudgetLuxury, 25},
		{"luxury above", 120, domain.BudgetLuxury, 25},
		{"luxury below", 30, domain.BudgetLuxury, 15},
		{"unset tier", 45, domain.BudgetUnset, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, budgetScore(tt.price, tt.tier), 0.001)
		})
	}
}

func TestScoreRoutine(t *testing.T) {
	r := domain.Routine{
		Name:        "Winter Rescue Routine",
		SuitableFor: []string{"dry", "sensitive"},
		Benefits:    []string{"Deep hydration", "Calming"},
	}

	res := ScoreRoutine(r, domain.UserPreferences{
		SkinType:     domain.SkinTypeDry,
		SkinConcerns: []string{"hydration"},
	})

	// 30 base + 40 suitability + 20 concern
	assert.InDelta(t, 90.0, res.Score, 0.001)
	assert.Contains(t, res.Reasons, "Designed for dry skin")
	assert.Contains(t, res.Reasons, "Targets hydration")

	// No matches at all still earns the flat base.
	res = ScoreRoutine(r, domain.UserPreferences{SkinType: domain.SkinTypeOily})
	assert.InDelta(t, 30.0, res.Score, 0.001)
}

func TestScoreRoutine_Clamp(t *testing.T) {
	r := domain.Routine{
		SuitableFor: []string{"dry"},
		Benefits:    []string{"a", "b", "c", "d"},
	}
	res := ScoreRoutine(r, domain.UserPreferences{
		SkinType:     domain.SkinTypeDry,
		SkinConcerns: []string{"a", "b", "c", "d"},
	})

	// 30 + 40 + 60 (capped at 3 matches) = 130 → clamped.
	assert.Equal(t, 100.0, res.Score)
}
