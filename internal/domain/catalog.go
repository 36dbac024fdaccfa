package domain

// Product is a purchasable catalog item. The catalog is defined at process
// start and never mutated at runtime.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Price       float64  `json:"price" yaml:"price"`
	Rating      float64  `json:"rating" yaml:"rating"` // 0-5 scale
	SuitableFor []string `json:"suitable_for" yaml:"suitable_for"`
	Benefits    []string `json:"benefits" yaml:"benefits"`
	Tags        []string `json:"tags" yaml:"tags"`
	EcoFriendly bool     `json:"eco_friendly" yaml:"eco_friendly"`
}

// RoutineStep is one step of a care routine.
type RoutineStep struct {
	Order       int    `json:"order" yaml:"order"`
	Instruction string `json:"instruction" yaml:"instruction"`
}

// Routine is a multi-step care routine catalog entry.
type Routine struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	SuitableFor []string      `json:"suitable_for" yaml:"suitable_for"`
	Benefits    []string      `json:"benefits" yaml:"benefits"`
	Tags        []string      `json:"tags" yaml:"tags"`
	Steps       []RoutineStep `json:"steps" yaml:"steps"`
}

// ScoredProduct pairs a product with its derived match score.
// Created fresh on every scoring pass; never persisted.
type ScoredProduct struct {
	Product    Product `json:"product"`
	MatchScore float64 `json:"match_score"` // always clamped to [0,100]
	Reason     string  `json:"reason"`
}

// ScoredRoutine pairs a routine with its derived match score.
type ScoredRoutine struct {
	Routine    Routine `json:"routine"`
	MatchScore float64 `json:"match_score"`
	Reason     string  `json:"reason"`
}
