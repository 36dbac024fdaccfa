package domain

import "time"

// StyleTag is one ranked label returned by the image classifier.
type StyleTag struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisResult is the assembled output of the fashion analysis pipeline.
type AnalysisResult struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	DominantColors      []string  `json:"dominant_colors"` // hex strings
	ColorNames          []string  `json:"color_names"`     // human names, hex fallback
	ComplementaryColors []string  `json:"complementary_colors"`
	PrimaryStyle        string    `json:"primary_style"`
	SecondaryStyles     []string  `json:"secondary_styles"`
	OutfitSuggestions   []string  `json:"outfit_suggestions"`
	ImageKey            string    `json:"image_key,omitempty"` // archival object key, best-effort
	CreatedAt           time.Time `json:"created_at"`
}
