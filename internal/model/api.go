package model

import "context"

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Signup(ctx context.Context, email, password, username string) (AuthResult, error)
}

// RecipeAPI is the remote recipe, favorites and ratings surface.
type RecipeAPI interface {
	GenerateRecipes(ctx context.Context, items []string, filters Filters) ([]Recipe, error)
	RandomRecipes(ctx context.Context, count int) ([]Recipe, error)
	AddFavorite(ctx context.Context, token string, recipe Recipe) error
	ListFavorites(ctx context.Context, token string) ([]Recipe, error)
	RemoveFavorite(ctx context.Context, token, title string) error
	RateRecipe(ctx context.Context, token, title string, rating int) error
}

// ShoppingAPI is the remote shopping list and deals surface.
type ShoppingAPI interface {
	ShoppingList(ctx context.Context, token string, req ShoppingListRequest) (map[string]int, error)
	LookupDeals(ctx context.Context, token string, items []string, location *Location) (map[string]Deal, error)
}

// TokenSource hands out the current bearer token.
type TokenSource interface {
	Token() (string, bool)
}
