package client

import (
	"context"

	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/model"
)

type removeFavoriteRequest struct {
	Title string `json:"title"`
}

type favoritesResponse struct {
	Favorites []model.Recipe `json:"favorites"`
}

type rateRequest struct {
	RecipeTitle string `json:"recipeTitle"`
	Rating      int    `json:"rating"`
}

// AddFavorite stores recipe among the user's favorites.
func (c *Client) AddFavorite(ctx context.Context, token string, recipe model.Recipe) error {
	return c.do(ctx, call{route: router.AddFavorite, token: token, body: recipe})
}

// ListFavorites returns the user's favorite recipes.
func (c *Client) ListFavorites(ctx context.Context, token string) ([]model.Recipe, error) {
	var resp favoritesResponse
	if err := c.do(ctx, call{route: router.ListFavorites, token: token, out: &resp}); err != nil {
		return nil, err
	}
	return nonNil(resp.Favorites), nil
}

// RemoveFavorite deletes the favorite with the given title.
func (c *Client) RemoveFavorite(ctx context.Context, token, title string) error {
	return c.do(ctx, call{route: router.RemoveFavorite, token: token, body: removeFavoriteRequest{Title: title}})
}

// RateRecipe records the user's rating for a recipe title.
func (c *Client) RateRecipe(ctx context.Context, token, title string, rating int) error {
	return c.do(ctx, call{route: router.RateRecipe, token: token, body: rateRequest{RecipeTitle: title, Rating: rating}})
}
