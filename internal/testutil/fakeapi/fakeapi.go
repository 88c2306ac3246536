// Package fakeapi is an in-memory implementation of the remote recipe API
// for tests and local development.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/model"
	"github.com/dtroode/recipai/internal/token"
	"github.com/go-chi/chi/v5"
)

// Recorded is one request received by the server.
type Recorded struct {
	Route         string
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	RequestID     string
	Body          []byte
}

// Decode unmarshals the recorded JSON body into v.
func (r Recorded) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

type user struct {
	password string
	username string
}

type failure struct {
	status int
	body   any
}

// Server is a fake remote API.
type Server struct {
	*httptest.Server

	issuer *token.Issuer

	mu            sync.Mutex
	users         map[string]user
	tokens        map[string]string
	favorites     map[string][]model.Recipe
	ratings       map[string]map[string]int
	recipes       []model.Recipe
	deals         map[string]model.Deal
	shoppingError string
	omitUsername  bool
	requests      []Recorded
	failures      map[string][]failure
	holds         map[string]chan struct{}
	arrivals      chan string
}

// New starts a fake API server. Close it when done.
func New() *Server {
	s := &Server{
		issuer:    token.NewIssuer("fakeapi-secret", 0),
		users:     make(map[string]user),
		tokens:    make(map[string]string),
		favorites: make(map[string][]model.Recipe),
		ratings:   make(map[string]map[string]int),
		deals:     make(map[string]model.Deal),
		failures:  make(map[string][]failure),
		holds:     make(map[string]chan struct{}),
		arrivals:  make(chan string, 128),
	}
	s.Server = httptest.NewServer(s.Handler())
	return s
}

// Handler returns the chi router serving every API route.
func (s *Server) Handler() http.Handler {
	handlers := map[string]http.HandlerFunc{
		router.Login:          s.handleLogin,
		router.Signup:         s.handleSignup,
		router.GenerateRecipe: s.handleGenerate,
		router.RandomRecipes:  s.handleRandom,
		router.AddFavorite:    s.handleAddFavorite,
		router.ListFavorites:  s.handleListFavorites,
		router.RemoveFavorite: s.handleRemoveFavorite,
		router.RateRecipe:     s.handleRate,
		router.ShoppingList:   s.handleShoppingList,
		router.LookupDeals:    s.handleDeals,
	}

	r := chi.NewRouter()
	for _, route := range router.Routes() {
		r.Method(route.Method, route.Path, s.wrap(route, handlers[route.Name]))
	}
	return r
}

// AddUser registers an account.
func (s *Server) AddUser(email, password, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user{password: password, username: username}
}

// IssueToken returns a valid bearer token for an existing or new account.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, _ := s.issuer.Issue(email, s.users[email].username)
	s.tokens[tok] = email
	return tok
}

// SetRecipes sets the recipes returned by generation endpoints.
func (s *Server) SetRecipes(recipes ...model.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = recipes
}

// SetDeal registers a deal for item.
func (s *Server) SetDeal(item string, deal model.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals[item] = deal
}

// SetShoppingError makes shopping list responses carry an error field.
func (s *Server) SetShoppingError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shoppingError = msg
}

// OmitUsername drops the username from login responses.
func (s *Server) OmitUsername(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitUsername = omit
}

// FailNext makes the next request to route answer with status and a JSON body.
func (s *Server) FailNext(route string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, body: body})
}

// Hold blocks requests to route until the returned release is called or the
// client goes away.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[route] == ch {
				delete(s.holds, route)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Arrivals reports the route name of each request as it arrives.
func (s *Server) Arrivals() <-chan string {
	return s.arrivals
}

// Requests returns the recorded requests for route, or all when route is empty.
func (s *Server) Requests(route string) []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Recorded, 0, len(s.requests))
	for _, r := range s.requests {
		if route == "" || r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// Ratings returns the stored ratings of email.
func (s *Server) Ratings(email string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.ratings[email]))
	for k, v := range s.ratings[email] {
		out[k] = v
	}
	return out
}

func (s *Server) wrap(route router.Route, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Route:         route.Name,
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		hold := s.holds[route.Name]
		var fail *failure
		if queue := s.failures[route.Name]; len(queue) > 0 {
			fail = &queue[0]
			s.failures[route.Name] = queue[1:]
		}
		s.mu.Unlock()

		select {
		case s.arrivals <- route.Name:
		default:
		}

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if fail != nil {
			writeJSON(w, fail.status, fail.body)
			return
		}

		if route.Bearer {
			if _, ok := s.authenticate(r); !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) authenticate(r *http.Request) (string, bool) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || tok == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[tok]
	return email, ok
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	u, exists := s.users[req.Email]
	omit := s.omitUsername
	s.mu.Unlock()

	switch {
	case !strings.Contains(req.Email, "@"):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email"})
		return
	case !exists:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	case u.password != req.Password:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
		return
	}

	resp := map[string]string{"token": s.IssueToken(req.Email)}
	if !omit && u.username != "" {
		resp["username"] = u.username
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Email]
	s.mu.Unlock()

	switch {
	case !strings.Contains(req.Email, "@"):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email"})
		return
	case exists:
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already exists", "code": "EMAIL_ALREADY_EXISTS"})
		return
	case len(req.Password) < 6:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Weak password", "code": "WEAK_PASSWORD"})
		return
	}

	s.AddUser(req.Email, req.Password, req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"token": s.IssueToken(req.Email)})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PantryItems []string      `json:"pantryItems"`
		Filters     model.Filters `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.PantryItems) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pantry items are required"})
		return
	}

	s.mu.Lock()
	recipes := append([]model.Recipe(nil), s.recipes...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		count = model.DefaultRandomCount
	}

	s.mu.Lock()
	recipes := append([]model.Recipe(nil), s.recipes...)
	s.mu.Unlock()

	if count < len(recipes) {
		recipes = recipes[:count]
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	email, _ := s.authenticate(r)

	var recipe model.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil || recipe.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Recipe title is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.favorites[email] {
		if f.Title == recipe.Title {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Recipe already in favorites"})
			return
		}
	}
	s.favorites[email] = append(s.favorites[email], recipe)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to favorites"})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	email, _ := s.authenticate(r)

	s.mu.Lock()
	favorites := append([]model.Recipe{}, s.favorites[email]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"favorites": favorites})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	email, _ := s.authenticate(r)

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Recipe title is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.favorites[email][:0]
	found := false
	for _, f := range s.favorites[email] {
		if f.Title == req.Title {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	s.favorites[email] = kept
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Favorite not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	email, _ := s.authenticate(r)

	var req struct {
		RecipeTitle string `json:"recipeTitle"`
		Rating      int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecipeTitle == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Recipe title is required"})
		return
	}
	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ratings[email] == nil {
		s.ratings[email] = make(map[string]int)
	}
	s.ratings[email][req.RecipeTitle] = req.Rating
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rating saved"})
}

// handleShoppingList counts the ingredients of the requested recipes missing
// from the pantry, plus one for every additional item.
func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	var req model.ShoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	recipes := append([]model.Recipe(nil), s.recipes...)
	shoppingError := s.shoppingError
	s.mu.Unlock()

	if shoppingError != "" {
		writeJSON(w, http.StatusOK, map[string]any{"shoppingList": map[string]int{}, "error": shoppingError})
		return
	}

	pantry := make(map[string]bool, len(req.PantryItems))
	for _, item := range req.PantryItems {
		pantry[strings.ToLower(item)] = true
	}
	titles := make(map[string]bool, len(req.RecipeTitles))
	for _, title := range req.RecipeTitles {
		titles[title] = true
	}

	list := make(map[string]int)
	for _, recipe := range recipes {
		if !titles[recipe.Title] {
			continue
		}
		for _, ingredient := range recipe.Ingredients {
			if !pantry[strings.ToLower(ingredient)] {
				list[ingredient]++
			}
		}
	}
	for _, item := range req.AdditionalItems {
		list[item]++
	}

	writeJSON(w, http.StatusOK, map[string]any{"shoppingList": list})
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items    []string        `json:"items"`
		Location *model.Location `json:"location,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Items are required"})
		return
	}

	s.mu.Lock()
	deals := make(map[string]model.Deal)
	for _, item := range req.Items {
		if deal, ok := s.deals[item]; ok {
			deals[item] = deal
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"deals": deals})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
