package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/model"
)

type generateRequest struct {
	PantryItems []string      `json:"pantryItems"`
	Filters     model.Filters `json:"filters"`
}

type recipesResponse struct {
	Recipes []model.Recipe `json:"recipes"`
}

// GenerateRecipes asks the API for recipes built from items.
func (c *Client) GenerateRecipes(ctx context.Context, items []string, filters model.Filters) ([]model.Recipe, error) {
	var resp recipesResponse
	err := c.do(ctx, call{
		route: router.GenerateRecipe,
		body:  generateRequest{PantryItems: items, Filters: filters},
		out:   &resp,
	})
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Recipes), nil
}

// RandomRecipes asks the API for count random recipes.
func (c *Client) RandomRecipes(ctx context.Context, count int) ([]model.Recipe, error) {
	var resp recipesResponse
	err := c.do(ctx, call{
		route: router.RandomRecipes,
		query: url.Values{"count": []string{strconv.Itoa(count)}},
		out:   &resp,
	})
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Recipes), nil
}

func nonNil(recipes []model.Recipe) []model.Recipe {
	if recipes == nil {
		return []model.Recipe{}
	}
	return recipes
}
