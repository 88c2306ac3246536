package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/model"
)

type shoppingListResponse struct {
	ShoppingList map[string]json.RawMessage `json:"shoppingList"`
	Error        string                     `json:"error,omitempty"`
}

type dealsRequest struct {
	Items    []string        `json:"items"`
	Location *model.Location `json:"location,omitempty"`
}

type dealsResponse struct {
	Deals map[string]*model.Deal `json:"deals"`
}

// ShoppingList derives the shopping list. An error field in a successful
// response is returned as a RemoteError.
func (c *Client) ShoppingList(ctx context.Context, token string, req model.ShoppingListRequest) (map[string]int, error) {
	req.PantryItems = nonNilStrings(req.PantryItems)
	req.RecipeTitles = nonNilStrings(req.RecipeTitles)
	req.AdditionalItems = nonNilStrings(req.AdditionalItems)

	var resp shoppingListResponse
	if err := c.do(ctx, call{route: router.ShoppingList, token: token, body: req, out: &resp}); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &model.RemoteError{Status: http.StatusOK, Reason: resp.Error}
	}

	out := make(map[string]int, len(resp.ShoppingList))
	for item, raw := range resp.ShoppingList {
		count, err := parseCount(raw)
		if err != nil {
			return nil, &model.RemoteError{
				Status: http.StatusOK,
				Err:    fmt.Errorf("invalid count for %q: %w", item, err),
			}
		}
		out[item] = count
	}
	return out, nil
}

// LookupDeals asks for deals on items near location. Items without a deal
// are absent from the result.
func (c *Client) LookupDeals(ctx context.Context, token string, items []string, location *model.Location) (map[string]model.Deal, error) {
	var resp dealsResponse
	err := c.do(ctx, call{
		route: router.LookupDeals,
		token: token,
		body:  dealsRequest{Items: nonNilStrings(items), Location: location},
		out:   &resp,
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]model.Deal, len(resp.Deals))
	for item, deal := range resp.Deals {
		if deal != nil {
			out[item] = *deal
		}
	}
	return out, nil
}

// parseCount accepts a JSON number or a numeric string and rounds to the
// nearest integer.
func parseCount(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(math.Round(f)), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("not a number: %s", string(raw))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int(math.Round(f)), nil
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
