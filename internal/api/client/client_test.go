package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/model"
	"github.com/dtroode/recipai/internal/testutil"
	"github.com/dtroode/recipai/internal/testutil/fakeapi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: baseURL, Timeout: 5 * time.Second}, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost"}, testutil.MakeNoopLogger())
	require.Error(t, err)
}

func TestClient_Login(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")

	c := newTestClient(t, srv.URL)

	res, err := c.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.Username)

	reqs := srv.Requests(router.Login)
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/api/auth/login", reqs[0].Path)
	assert.Empty(t, reqs[0].Authorization)
	_, err = uuid.Parse(reqs[0].RequestID)
	assert.NoError(t, err)

	var body map[string]string
	require.NoError(t, reqs[0].Decode(&body))
	assert.Equal(t, map[string]string{"email": "alice@example.com", "password": "secret1"}, body)
}

func TestClient_Login_Errors(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")

	c := newTestClient(t, srv.URL)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantReason string
	}{
		{name: "unknown user", email: "bob@example.com", password: "x", wantStatus: http.StatusNotFound, wantReason: "User not found"},
		{name: "wrong password", email: "alice@example.com", password: "nope", wantStatus: http.StatusUnauthorized, wantReason: "Invalid password"},
		{name: "bad email", email: "alice", password: "x", wantStatus: http.StatusBadRequest, wantReason: "Invalid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)

			var remote *model.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tt.wantStatus, remote.Status)
			assert.Equal(t, tt.wantReason, remote.Reason)
		})
	}
}

func TestClient_Signup(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	res, err := c.Signup(context.Background(), "carol@example.com", "longpass", "carol")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.Username)

	_, err = c.Signup(context.Background(), "carol@example.com", "longpass", "carol")
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusConflict, remote.Status)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", remote.Code)
	assert.Equal(t, "Email already exists", remote.Reason)
}

func TestClient_LoginWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"x"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Login(context.Background(), "a@b.c", "p")
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Reason, "no token")
}

func TestClient_Recipes(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.SetRecipes(
		model.Recipe{Title: "Pancakes", Ingredients: []string{"milk", "flour", "egg"}},
		model.Recipe{Title: "Bread", Ingredients: []string{"flour", "yeast"}},
	)
	c := newTestClient(t, srv.URL)

	recipes, err := c.GenerateRecipes(context.Background(), []string{"milk", "flour"}, model.Filters{Vegan: true})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Pancakes", recipes[0].Title)

	var body struct {
		PantryItems []string        `json:"pantryItems"`
		Filters     map[string]bool `json:"filters"`
	}
	require.NoError(t, srv.Requests(router.GenerateRecipe)[0].Decode(&body))
	assert.Equal(t, []string{"milk", "flour"}, body.PantryItems)
	assert.Equal(t, map[string]bool{"vegan": true, "nonDairy": false, "kosher": false}, body.Filters)

	random, err := c.RandomRecipes(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, random, 1)
	assert.Equal(t, "1", srv.Requests(router.RandomRecipes)[0].Query.Get("count"))
}

func TestClient_BearerRequired(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	err := c.AddFavorite(ctx, "", model.Recipe{Title: "x"})
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	_, err = c.ListFavorites(ctx, "")
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	err = c.RateRecipe(ctx, "", "x", 3)
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	_, err = c.ShoppingList(ctx, "", model.ShoppingListRequest{})
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	_, err = c.LookupDeals(ctx, "", []string{"milk"}, nil)
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	assert.Empty(t, srv.Requests(""))
}

func TestClient_Favorites(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")
	tok := srv.IssueToken("alice@example.com")
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	recipe := model.Recipe{Title: "Soup", Ingredients: []string{"water"}, Instructions: []string{"boil"}}
	require.NoError(t, c.AddFavorite(ctx, tok, recipe))

	favorites, err := c.ListFavorites(ctx, tok)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Soup", favorites[0].Title)
	assert.Equal(t, "Bearer "+tok, srv.Requests(router.ListFavorites)[0].Authorization)

	require.NoError(t, c.RemoveFavorite(ctx, tok, "Soup"))
	reqs := srv.Requests(router.RemoveFavorite)
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.JSONEq(t, `{"title":"Soup"}`, string(reqs[0].Body))

	favorites, err = c.ListFavorites(ctx, tok)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestClient_RateRecipe(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")
	tok := srv.IssueToken("alice@example.com")
	c := newTestClient(t, srv.URL)

	require.NoError(t, c.RateRecipe(context.Background(), tok, "Soup", 4))
	assert.JSONEq(t, `{"recipeTitle":"Soup","rating":4}`, string(srv.Requests(router.RateRecipe)[0].Body))
	assert.Equal(t, map[string]int{"Soup": 4}, srv.Ratings("alice@example.com"))
}

func TestClient_InvalidToken(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.ListFavorites(context.Background(), "forged")
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
}

func TestClient_ShoppingList(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")
	tok := srv.IssueToken("alice@example.com")
	srv.SetRecipes(model.Recipe{Title: "Pancakes", Ingredients: []string{"milk", "flour", "egg"}})
	c := newTestClient(t, srv.URL)

	list, err := c.ShoppingList(context.Background(), tok, model.ShoppingListRequest{
		PantryItems:     []string{"milk"},
		RecipeTitles:    []string{"Pancakes"},
		AdditionalItems: []string{"sugar"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"flour": 1, "egg": 1, "sugar": 1}, list)

	srv.SetShoppingError("Could not derive list")
	_, err = c.ShoppingList(context.Background(), tok, model.ShoppingListRequest{})
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Could not derive list", remote.Reason)

	var body map[string][]string
	reqs := srv.Requests(router.ShoppingList)
	require.NoError(t, reqs[len(reqs)-1].Decode(&body))
	assert.Equal(t, []string{}, body["pantryItems"])
	assert.Equal(t, []string{}, body["recipeTitles"])
	assert.Equal(t, []string{}, body["additionalItems"])
}

func TestClient_ShoppingList_CountShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"shoppingList":{"milk":2,"flour":"3","egg":1.6}}`))
	}))
	defer srv.Close()

	list, err := newTestClient(t, srv.URL).ShoppingList(context.Background(), "tok", model.ShoppingListRequest{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"milk": 2, "flour": 3, "egg": 2}, list)
}

func TestClient_ShoppingList_BadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"shoppingList":{"milk":"lots"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).ShoppingList(context.Background(), "tok", model.ShoppingListRequest{})
	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
}

func TestClient_LookupDeals(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")
	tok := srv.IssueToken("alice@example.com")
	srv.SetDeal("milk", model.Deal{Description: "2 for 1", Link: "https://shop.example/milk"})
	c := newTestClient(t, srv.URL)

	deals, err := c.LookupDeals(context.Background(), tok, []string{"milk", "flour"}, &model.Location{Lat: 32.1, Lon: 34.8})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Deal{"milk": {Description: "2 for 1", Link: "https://shop.example/milk"}}, deals)
	assert.JSONEq(t, `{"items":["milk","flour"],"location":{"lat":32.1,"lon":34.8}}`, string(srv.Requests(router.LookupDeals)[0].Body))

	_, err = c.LookupDeals(context.Background(), tok, []string{"flour"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":["flour"]}`, string(srv.Requests(router.LookupDeals)[1].Body))
}

func TestClient_Cancelled(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("alice@example.com", "secret1", "alice")
	tok := srv.IssueToken("alice@example.com")
	release := srv.Hold(router.LookupDeals)
	defer release()

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := c.LookupDeals(ctx, tok, []string{"milk"}, nil)
		errCh <- err
	}()

	<-srv.Arrivals()
	cancel()

	err := <-errCh
	require.ErrorIs(t, err, model.ErrCancelled)
	assert.True(t, model.IsCancelled(err))
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
		wantCode   string
	}{
		{name: "error field", status: 400, body: `{"error":"Invalid email"}`, wantReason: "Invalid email"},
		{name: "message field", status: 500, body: `{"message":"Upstream down"}`, wantReason: "Upstream down"},
		{name: "error over message", status: 400, body: `{"error":"A","message":"B"}`, wantReason: "A"},
		{name: "code only", status: 409, body: `{"code":"EMAIL_ALREADY_EXISTS"}`, wantReason: "EMAIL_ALREADY_EXISTS", wantCode: "EMAIL_ALREADY_EXISTS"},
		{name: "nested error object", status: 422, body: `{"error":{"code":"WEAK_PASSWORD","message":"Weak password"}}`, wantReason: "Weak password"},
		{name: "not json", status: 502, body: `<html>bad gateway</html>`, wantReason: "Bad Gateway"},
		{name: "empty", status: 503, body: ``, wantReason: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rec.WriteHeader(tt.status)
			_, _ = rec.WriteString(tt.body)

			remote := decodeError(rec.Result())
			assert.Equal(t, tt.status, remote.Status)
			assert.Equal(t, tt.wantReason, remote.Reason)
			assert.Equal(t, tt.wantCode, remote.Code)
		})
	}
}
