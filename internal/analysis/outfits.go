package analysis

import (
	"github.com/osteele/liquid"

	"github.com/lumina/glow-platform/internal/pkg/logger"
)

// Outfit suggestion copy lives in Liquid templates so product can tune the
// wording without a code change.
var outfitTemplates = []string{
	`A {{ primary_style }} look anchored in {{ color_1 }}, finished with {{ color_2 }} accents.`,
	`Pair a {{ color_1 }} top with {{ color_2 }} bottoms for an easy {{ primary_style }} outfit.`,
	`Layer {{ secondary_style }} pieces over a {{ color_1 }} base to soften the {{ primary_style }} core.`,
}

var outfitEngine = liquid.NewEngine()

// OutfitSuggestions renders one suggestion per template. A template that
// fails to render is skipped rather than failing the analysis.
func OutfitSuggestions(primaryStyle string, secondaryStyles, colorNames []string) []string {
	color1, color2 := "neutral", "neutral"
	if len(colorNames) > 0 {
		color1 = colorNames[0]
	}
	if len(colorNames) > 1 {
		color2 = colorNames[1]
	}
	secondary := primaryStyle
	if len(secondaryStyles) > 0 {
		secondary = secondaryStyles[0]
	}

	bindings := map[string]interface{}{
		"primary_style":   primaryStyle,
		"secondary_style": secondary,
		"color_1":         color1,
		"color_2":         color2,
	}

	suggestions := make([]string, 0, len(outfitTemplates))
	for _, tmpl := range outfitTemplates {
		out, err := outfitEngine.ParseAndRenderString(tmpl, bindings)
		if err != nil {
			logger.Warn("Failed to render outfit template", "error", err.Error())
			continue
		}
		suggestions = append(suggestions, out)
	}
	return suggestions
}
