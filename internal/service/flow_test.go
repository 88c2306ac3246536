package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recipai/internal/api/client"
	"github.com/dtroode/recipai/internal/api/router"
	"github.com/dtroode/recipai/internal/metrics"
	"github.com/dtroode/recipai/internal/model"
	"github.com/dtroode/recipai/internal/service"
	"github.com/dtroode/recipai/internal/storage/memory"
	"github.com/dtroode/recipai/internal/testutil"
	"github.com/dtroode/recipai/internal/testutil/fakeapi"
	"github.com/dtroode/recipai/internal/token"
)

type app struct {
	srv      *fakeapi.Server
	store    *memory.Store
	session  *service.Session
	pantry   *service.Pantry
	shopping *service.Shopping
}

func newApp(t *testing.T, srv *fakeapi.Server, store *memory.Store) *app {
	t.Helper()
	log := testutil.MakeNoopLogger()

	api, err := client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, log)
	require.NoError(t, err)

	session := service.NewSession(api, service.NewTokenService(token.NewJWT(), store, log), log)
	session.Initialize(context.Background())

	pantry := service.NewPantry(api, store, session, log)
	pantry.Restore(context.Background())

	return &app{
		srv:      srv,
		store:    store,
		session:  session,
		pantry:   pantry,
		shopping: service.NewShopping(api, session, log, metrics.New(), 2),
	}
}

var (
	crepes  = model.Recipe{Title: "Crepes", Ingredients: []string{"milk", "flour", "eggs"}, Instructions: []string{"Whisk", "Fry"}}
	scones  = model.Recipe{Title: "Scones", Ingredients: []string{"flour", "butter", "cream"}, Instructions: []string{"Mix", "Bake"}}
	ctxTest = context.Background()
)

func TestFlow_PantryToShoppingList(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("ann@example.com", "secret", "ann")
	srv.SetRecipes(crepes, scones)
	srv.SetDeal("sugar", model.Deal{Description: "1+1 on sugar", Link: "https://shop.example/sugar"})

	a := newApp(t, srv, memory.New())
	require.Equal(t, model.GuardRedirect, a.session.Guard())
	require.NoError(t, a.session.Login(ctxTest, "ann@example.com", "secret"))
	require.Equal(t, model.GuardRender, a.session.Guard())

	items, err := a.pantry.AddPantryItems(ctxTest, "milk, flour")
	require.NoError(t, err)
	recipes, err := a.pantry.GenerateFromPantry(ctxTest, items, model.Filters{Vegan: false})
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	_, err = a.pantry.Select(0)
	require.NoError(t, err)
	require.NoError(t, a.pantry.AddToCart(ctxTest, "sugar"))

	out, err := a.shopping.BuildFromPantry(ctxTest, a.pantry)
	require.NoError(t, err)

	reqs := srv.Requests(router.ShoppingList)
	require.Len(t, reqs, 1)
	var sent model.ShoppingListRequest
	require.NoError(t, reqs[0].Decode(&sent))
	assert.Equal(t, []string{"milk", "flour"}, sent.PantryItems)
	assert.Equal(t, []string{recipes[0].Title}, sent.RecipeTitles)
	assert.Equal(t, []string{"sugar"}, sent.AdditionalItems)
	tok, _ := a.session.Token()
	assert.Equal(t, "Bearer "+tok, reqs[0].Authorization)

	assert.False(t, out.Empty)
	assert.Equal(t, []model.ShoppingItem{
		{Item: "eggs", Count: 1},
		{Item: "sugar", Count: 1},
	}, out.Items)

	res, err := a.shopping.FetchDeal(ctxTest, "sugar")
	require.NoError(t, err)
	assert.True(t, res.Found)
	res, err = a.shopping.FetchDeal(ctxTest, "eggs")
	require.NoError(t, err)
	assert.False(t, res.Found)

	assert.Equal(t, []model.ShoppingItem{
		{Item: "eggs", Count: 1, Deal: model.NoDealMarker},
		{Item: "sugar", Count: 1, Deal: "1+1 on sugar", DealLink: "https://shop.example/sugar"},
	}, a.shopping.Items())
}

func TestFlow_AllRecipesWhenNothingSelected(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("ann@example.com", "secret", "ann")
	srv.SetRecipes(crepes, scones)

	a := newApp(t, srv, memory.New())
	require.NoError(t, a.session.Login(ctxTest, "ann@example.com", "secret"))
	_, err := a.pantry.GenerateFromPantry(ctxTest, []string{"flour"}, model.Filters{})
	require.NoError(t, err)

	_, err = a.shopping.BuildFromPantry(ctxTest, a.pantry)
	require.NoError(t, err)

	var sent model.ShoppingListRequest
	require.NoError(t, srv.Requests(router.ShoppingList)[0].Decode(&sent))
	assert.Equal(t, []string{"Crepes", "Scones"}, sent.RecipeTitles)
	assert.Equal(t, []string{}, sent.AdditionalItems)
}

func TestFlow_SessionSurvivesRestart(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("ann@example.com", "secret", "ann")
	srv.SetRecipes(crepes)
	store := memory.New()

	first := newApp(t, srv, store)
	require.NoError(t, first.session.Login(ctxTest, "ann@example.com", "secret"))
	_, err := first.pantry.AddPantryItems(ctxTest, "milk")
	require.NoError(t, err)
	require.NoError(t, first.pantry.Rate(ctxTest, crepes, 4))

	second := newApp(t, srv, store)

	assert.Equal(t, model.StatusAuthenticated, second.session.Status())
	assert.Equal(t, &model.Identity{Email: "ann@example.com", Username: "ann"}, second.session.Identity())
	assert.Equal(t, []string{"milk"}, second.pantry.PantryItems())
	assert.Equal(t, 4.0, second.pantry.EffectiveRating(crepes))
	assert.Equal(t, map[string]int{"Crepes": 4}, srv.Ratings("ann@example.com"))

	second.session.Logout(ctxTest)
	assert.ErrorIs(t, second.pantry.Favorite(ctxTest, crepes), model.ErrNotAuthenticated)

	third := newApp(t, srv, store)
	assert.Equal(t, model.StatusAnonymous, third.session.Status())
	assert.Equal(t, []string{"milk"}, third.pantry.PantryItems())
}

func TestFlow_LoginErrorsCarryServerReason(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("ann@example.com", "secret", "ann")

	a := newApp(t, srv, memory.New())

	err := a.session.Login(ctxTest, "ann@example.com", "nope")
	require.ErrorIs(t, err, model.ErrAuth)
	assert.Equal(t, "Invalid password", model.Reason(err, ""))

	err = a.session.Signup(ctxTest, "ann@example.com", "secret", "ann")
	require.ErrorIs(t, err, model.ErrAuth)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", model.Code(err))
	assert.Equal(t, model.StatusAnonymous, a.session.Status())
}

func TestFlow_DealLookupCancelledMidFlight(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("ann@example.com", "secret", "ann")
	srv.SetDeal("sugar", model.Deal{Description: "cheap"})

	a := newApp(t, srv, memory.New())
	require.NoError(t, a.session.Login(ctxTest, "ann@example.com", "secret"))
	_, err := a.shopping.Build(ctxTest, nil, nil, []string{"sugar"})
	require.NoError(t, err)
	before := a.shopping.Items()

	release := srv.Hold(router.LookupDeals)
	defer release()

	ctx, cancel := context.WithCancel(ctxTest)
	errCh := make(chan error, 1)
	go func() {
		_, err := a.shopping.FetchDeal(ctx, "sugar")
		errCh <- err
	}()

	for route := range srv.Arrivals() {
		if route == router.LookupDeals {
			break
		}
	}
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, model.ErrCancelled)
	case <-time.After(3 * time.Second):
		t.Fatal("lookup did not settle after cancellation")
	}
	assert.Equal(t, before, a.shopping.Items())
}

func TestFlow_RandomClearsPantry(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.SetRecipes(crepes, scones)
	store := memory.New()

	a := newApp(t, srv, store)
	_, err := a.pantry.AddPantryItems(ctxTest, "milk, flour")
	require.NoError(t, err)

	recipes, err := a.pantry.GenerateRandom(ctxTest, 0)
	require.NoError(t, err)

	assert.Len(t, recipes, 2)
	assert.Empty(t, a.pantry.PantryItems())
	assert.Equal(t, "3", srv.Requests(router.RandomRecipes)[0].Query.Get("count"))
	_, err = store.Get(ctxTest, model.KeyPantryItems)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
