package model

// Recipe is a recipe produced by the remote API.
type Recipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Rating       *float64 `json:"rating,omitempty"`
}

// Filters narrows recipe generation to dietary constraints.
type Filters struct {
	Vegan    bool `json:"vegan"`
	NonDairy bool `json:"nonDairy"`
	Kosher   bool `json:"kosher"`
}

// DefaultRandomCount is the number of random recipes requested when none is given.
const DefaultRandomCount = 3

// MinRating and MaxRating bound a user rating.
const (
	MinRating = 1
	MaxRating = 5
)
