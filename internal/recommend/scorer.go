// Package recommend implements the personalization scoring engine that ranks
// catalog products and routines against a user's stated preferences.
package recommend

import (
	"fmt"
	"strings"

	"github.com/lumina/glow-platform/internal/domain"
)

// Scoring weights for products. The final score is the sum of all triggered
// terms, clamped to [0,100].
const (
	skinTypePoints    = 30.0
	budgetMaxPoints   = 25.0
	ecoPoints         = 20.0
	concernPoints     = 15.0
	ratingMultiplier  = 4.0

	// A budget sub-score at or above this records a reason fragment.
	budgetReasonThreshold = 20.0

	// Each matching concern adds points; the cumulative bonus is capped at
	// three matches so users with many concern tags don't saturate every
	// score at the clamp.
	maxConcernMatches = 3
)

// Routine scoring weights. Routines have no price or rating, so the shape is
// simpler: suitability, concern matches, and a flat base.
const (
	routineSkinTypePoints = 40.0
	routineConcernPoints  = 20.0
	routineBasePoints     = 30.0
)

const fallbackReason = "High-quality pick loved by the Glow community"

// ScoreResult is the outcome of scoring one catalog entry.
type ScoreResult struct {
	Score   float64
	Reasons []string
}

// Reason joins the triggered reason fragments, falling back to a generic
// message when nothing specific fired.
func (r ScoreResult) Reason() string {
	if len(r.Reasons) == 0 {
		return fallbackReason
	}
	return strings.Join(r.Reasons, ", ")
}

// ScoreProduct computes the match score for a product against the user's
// preferences. It is a pure function: same inputs, same output, no side
// effects.
func ScoreProduct(p domain.Product, prefs domain.UserPreferences) ScoreResult {
	var score float64
	var reasons []string

	if prefs.SkinType != domain.SkinTypeUnset && containsFold(p.SuitableFor, string(prefs.SkinType)) {
		score += skinTypePoints
		reasons = append(reasons, fmt.Sprintf("Perfect for %s skin", prefs.SkinType))
	}

	budget := budgetScore(p.Price, prefs.BudgetTier)
	score += budget
	if budget >= budgetReasonThreshold {
		reasons = append(reasons, "Fits your budget")
	}

	if prefs.EcoFriendly && p.EcoFriendly {
		score += ecoPoints
		reasons = append(reasons, "Eco-friendly choice")
	}

	matched := matchConcerns(prefs.SkinConcerns, p.Benefits)
	score += float64(len(matched)) * concernPoints
	for _, c := range matched {
		reasons = append(reasons, fmt.Sprintf("Targets %s", c))
	}

	score += p.Rating * ratingMultiplier

	return ScoreResult{Score: clamp(score), Reasons: reasons}
}

// ScoreRoutine computes the match score for a routine. Routines carry a flat
// base so an unmatched routine still ranks above zero.
func ScoreRoutine(r domain.Routine, prefs domain.UserPreferences) ScoreResult {
	score := routineBasePoints
	var reasons []string

	if prefs.SkinType != domain.SkinTypeUnset && containsFold(r.SuitableFor, string(prefs.SkinType)) {
		score += routineSkinTypePoints
		reasons = append(reasons, fmt.Sprintf("Designed for %s skin", prefs.SkinType))
	}

	matched := matchConcerns(prefs.SkinConcerns, r.Benefits)
	score += float64(len(matched)) * routineConcernPoints
	for _, c := range matched {
		reasons = append(reasons, fmt.Sprintf("Targets %s", c))
	}

	return ScoreResult{Score: clamp(score), Reasons: reasons}
}

// budgetScore maps a price onto a 0-25 sub-score for the user's declared
// tier. An unset tier contributes nothing.
func budgetScore(price float64, tier domain.BudgetTier) float64 {
	switch tier {
	case domain.BudgetBudget:
		// Full marks at or under $25, then a progressive penalty.
		if price <= 25 {
			return budgetMaxPoints
		}
		return clampSub(budgetMaxPoints - (price-25)*0.5)
	case domain.BudgetMid:
		// Comfortable mid-range window.
		if price >= 20 && price <= 60 {
			return budgetMaxPoints
		}
		if price < 20 {
			// Cheaper than expected still works, just less of a signal.
			return 15
		}
		return clampSub(budgetMaxPoints - (price-60)*0.5)
	case domain.BudgetLuxury:
		if price >= 50 {
			return budgetMaxPoints
		}
		return clampSub(budgetMaxPoints - (50-price)*0.5)
	}
	return 0
}

// matchConcerns returns the user concerns that substring-match any benefit,
// case-insensitive in either direction, capped at maxConcernMatches.
func matchConcerns(concerns, benefits []string) []string {
	var matched []string
	for _, concern := range concerns {
		if len(matched) >= maxConcernMatches {
			break
		}
		c := strings.ToLower(strings.TrimSpace(concern))
		if c == "" {
			continue
		}
		for _, benefit := range benefits {
			b := strings.ToLower(benefit)
			if strings.Contains(b, c) || strings.Contains(c, b) {
				matched = append(matched, concern)
				break
			}
		}
	}
	return matched
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampSub(sub float64) float64 {
	if sub < 0 {
		return 0
	}
	if sub > budgetMaxPoints {
		return budgetMaxPoints
	}
	return sub
}
