package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Route names of the remote API.
const (
	Login          = "login"
	Signup         = "signup"
	GenerateRecipe = "generate_recipes"
	RandomRecipes  = "random_recipes"
	AddFavorite    = "add_favorite"
	ListFavorites  = "list_favorites"
	RemoveFavorite = "remove_favorite"
	RateRecipe     = "rate_recipe"
	ShoppingList   = "shopping_list"
	LookupDeals    = "lookup_deals"
)

// Route describes one endpoint of the remote API.
type Route struct {
	Name   string
	Method string
	Path   string
	Bearer bool
}

var routes = map[string]Route{
	Login:          {Name: Login, Method: http.MethodPost, Path: "/api/auth/login"},
	Signup:         {Name: Signup, Method: http.MethodPost, Path: "/api/auth/signup"},
	GenerateRecipe: {Name: GenerateRecipe, Method: http.MethodPost, Path: "/api/recipes"},
	RandomRecipes:  {Name: RandomRecipes, Method: http.MethodGet, Path: "/api/recipes/random"},
	AddFavorite:    {Name: AddFavorite, Method: http.MethodPost, Path: "/api/favorites", Bearer: true},
	ListFavorites:  {Name: ListFavorites, Method: http.MethodGet, Path: "/api/favorites", Bearer: true},
	RemoveFavorite: {Name: RemoveFavorite, Method: http.MethodDelete, Path: "/api/favorites", Bearer: true},
	RateRecipe:     {Name: RateRecipe, Method: http.MethodPost, Path: "/api/ratings", Bearer: true},
	ShoppingList:   {Name: ShoppingList, Method: http.MethodPost, Path: "/api/recipes/shopping-list", Bearer: true},
	LookupDeals:    {Name: LookupDeals, Method: http.MethodPost, Path: "/api/deals", Bearer: true},
}

// Router resolves route names against the configured base URL.
type Router struct {
	base *url.URL
}

// New creates new Router instance for the given base URL.
func New(baseURL string) (*Router, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}
	return &Router{base: base}, nil
}

// Route returns the route registered under name.
func (r *Router) Route(name string) (Route, bool) {
	route, ok := routes[name]
	return route, ok
}

// URL builds the absolute URL of the named route with optional query parameters.
func (r *Router) URL(name string, query url.Values) (string, error) {
	route, ok := routes[name]
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}

	u := *r.base
	u.Path = r.base.Path + route.Path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// Routes returns every registered route.
func Routes() []Route {
	out := make([]Route, 0, len(routes))
	for _, route := range routes {
		out = append(out, route)
	}
	return out
}
