package recommend

import (
	"sort"
	"strings"

	"github.com/lumina/glow-platform/internal/catalog"
	"github.com/lumina/glow-platform/internal/domain"
)

// Engine scores the static catalog against user preferences and returns
// ranked recommendations. It holds no mutable state beyond the catalog
// reference, so a single instance is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a recommendation engine over the given catalog.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// RecommendProducts scores every catalog product, sorts by descending match
// score, and returns the first limit entries. The sort is stable: products
// with equal scores keep their catalog order.
func (e *Engine) RecommendProducts(prefs domain.UserPreferences, limit int) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(e.catalog.Products))
	for _, p := range e.catalog.Products {
		res := ScoreProduct(p, prefs)
		scored = append(scored, domain.ScoredProduct{
			Product:    p,
			MatchScore: res.Score,
			Reason:     res.Reason(),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	return truncateProducts(scored, limit)
}

// RecommendRoutines scores every catalog routine and returns the top limit.
func (e *Engine) RecommendRoutines(prefs domain.UserPreferences, limit int) []domain.ScoredRoutine {
	scored := make([]domain.ScoredRoutine, 0, len(e.catalog.Routines))
	for _, r := range e.catalog.Routines {
		res := ScoreRoutine(r, prefs)
		scored = append(scored, domain.ScoredRoutine{
			Routine:    r,
			MatchScore: res.Score,
			Reason:     res.Reason(),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// SearchProducts filters the catalog by a case-insensitive substring match
// over name, description, and tags, then scores and sorts the survivors.
// Filtering and scoring are independent stages.
func (e *Engine) SearchProducts(query string, prefs domain.UserPreferences, limit int) []domain.ScoredProduct {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.ScoredProduct{}
	}

	var filtered []domain.Product
	for _, p := range e.catalog.Products {
		if productMatchesQuery(p, q) {
			filtered = append(filtered, p)
		}
	}

	scored := make([]domain.ScoredProduct, 0, len(filtered))
	for _, p := range filtered {
		res := ScoreProduct(p, prefs)
		scored = append(scored, domain.ScoredProduct{
			Product:    p,
			MatchScore: res.Score,
			Reason:     res.Reason(),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	return truncateProducts(scored, limit)
}

func productMatchesQuery(p domain.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func truncateProducts(scored []domain.ScoredProduct, limit int) []domain.ScoredProduct {
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	if scored == nil {
		scored = []domain.ScoredProduct{}
	}
	return scored
}
