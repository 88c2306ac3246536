package router

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "default", baseURL: "http://localhost:5000"},
		{name: "trailing slash", baseURL: "https://api.example.com/"},
		{name: "with prefix", baseURL: "https://example.com/recipai"},
		{name: "no scheme", baseURL: "localhost:5000", wantErr: true},
		{name: "ftp", baseURL: "ftp://example.com", wantErr: true},
		{name: "no host", baseURL: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}
}

func TestRouter_URL(t *testing.T) {
	r, err := New("http://localhost:5000/")
	require.NoError(t, err)

	got, err := r.URL(Login, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api/auth/login", got)

	got, err = r.URL(RandomRecipes, url.Values{"count": []string{"3"}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api/recipes/random?count=3", got)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRouter_URL_WithPrefix(t *testing.T) {
	r, err := New("https://example.com/recipai")
	require.NoError(t, err)

	got, err := r.URL(ShoppingList, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/recipai/api/recipes/shopping-list", got)
}

func TestRoutes_BearerTable(t *testing.T) {
	bearer := map[string]bool{}
	for _, route := range Routes() {
		bearer[route.Name] = route.Bearer
	}

	assert.Len(t, bearer, 10)
	assert.False(t, bearer[Login])
	assert.False(t, bearer[Signup])
	assert.False(t, bearer[GenerateRecipe])
	assert.False(t, bearer[RandomRecipes])
	assert.True(t, bearer[AddFavorite])
	assert.True(t, bearer[ListFavorites])
	assert.True(t, bearer[RemoveFavorite])
	assert.True(t, bearer[RateRecipe])
	assert.True(t, bearer[ShoppingList])
	assert.True(t, bearer[LookupDeals])
}

func TestRouter_Route(t *testing.T) {
	r, err := New("http://localhost:5000")
	require.NoError(t, err)

	route, ok := r.Route(RemoveFavorite)
	require.True(t, ok)
	assert.Equal(t, http.MethodDelete, route.Method)
	assert.Equal(t, "/api/favorites", route.Path)

	_, ok = r.Route("missing")
	assert.False(t, ok)
}
