package domain

import "time"

// SkinType enumerates the supported skin type declarations.
type SkinType string

const (
	SkinTypeUnset       SkinType = ""
	SkinTypeDry         SkinType = "dry"
	SkinTypeOily        SkinType = "oily"
	SkinTypeCombination SkinType = "combination"
	SkinTypeSensitive   SkinType = "sensitive"
	SkinTypeNormal      SkinType = "normal"
)

// BudgetTier enumerates the supported budget declarations.
type BudgetTier string

const (
	BudgetUnset  BudgetTier = ""
	BudgetBudget BudgetTier = "budget"
	BudgetMid    BudgetTier = "mid-range"
	BudgetLuxury BudgetTier = "luxury"
)

// UserPreferences holds the stated preference facts for one user.
// The preference store owns the record; consumers read it wholesale.
type UserPreferences struct {
	UserID       string     `json:"user_id"`
	Email        string     `json:"email,omitempty"` // reminder delivery address, optional
	SkinType     SkinType   `json:"skin_type,omitempty"`
	SkinConcerns []string   `json:"skin_concerns,omitempty"`
	BudgetTier   BudgetTier `json:"budget_tier,omitempty"`
	EcoFriendly  bool       `json:"eco_friendly"`
	AllergyTags  []string   `json:"allergy_tags,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DefaultPreferences returns the record created on first access for a user.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}
}

// ValidSkinType reports whether s is one of the declared skin types (or unset).
func ValidSkinType(s SkinType) bool {
	switch s {
	case SkinTypeUnset, SkinTypeDry, SkinTypeOily, SkinTypeCombination, SkinTypeSensitive, SkinTypeNormal:
		return true
	}
	return false
}

// ValidBudgetTier reports whether b is one of the declared tiers (or unset).
func ValidBudgetTier(b BudgetTier) bool {
	switch b {
	case BudgetUnset, BudgetBudget, BudgetMid, BudgetLuxury:
		return true
	}
	return false
}
