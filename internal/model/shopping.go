package model

// NoDealMarker is shown for an item whose lookup found no deal.
const NoDealMarker = "no deals"

// Location is an optional geolocation hint for deal lookups.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Deal is a promotional offer for one item.
type Deal struct {
	Description string `json:"description"`
	Link        string `json:"link"`
}

// ShoppingListRequest is the input of a shopping list derivation.
type ShoppingListRequest struct {
	PantryItems     []string `json:"pantryItems"`
	RecipeTitles    []string `json:"recipeTitles"`
	AdditionalItems []string `json:"additionalItems"`
}

// ShoppingItem is one entry of the derived shopping list.
type ShoppingItem struct {
	Item        string
	Count       int
	Deal        string
	DealLink    string
	IsSearching bool
}

// DealResult is the outcome of a settled deal lookup.
type DealResult struct {
	Item  string
	Deal  Deal
	Found bool
}
