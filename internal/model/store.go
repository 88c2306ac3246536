package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Persisted keys. The names are part of the client contract.
const (
	KeyToken         = "token"
	KeyUserEmail     = "userEmail"
	KeyUsername      = "username"
	KeyPantryItems   = "pantryItems"
	KeyShoppingCart  = "shoppingCart"
	KeyRecipeRatings = "recipeRatings"
)

// SessionKeys are cleared on logout.
var SessionKeys = []string{KeyToken, KeyUserEmail, KeyUsername}

// Store is the durable key-value store behind the client state.
// Get returns ErrNotFound for an absent key. Writers to different keys are
// independent; writers to the same key race with last write wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// LoadJSON decodes the JSON value stored under key into v.
// It reports false when the key is absent.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v as JSON and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
