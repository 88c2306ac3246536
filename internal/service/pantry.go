package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/model"
)

const noSelection = -1

// Pantry holds the pantry set, the latest generated recipes with the user's
// selection, the shopping cart and the rating overlay.
type Pantry struct {
	api    model.RecipeAPI
	store  model.Store
	tokens model.TokenSource
	logger *logger.Logger

	// persistMu orders store writes. It is always taken before mu, and
	// store I/O never happens under mu.
	persistMu sync.Mutex

	mu       sync.Mutex
	items    []string
	cart     []string
	ratings  map[string]int
	recipes  []model.Recipe
	selected int
	lastSeq  uint64
	applied  uint64
	inFlight int

	rateSeq      uint64
	latestRating map[string]uint64
}

func NewPantry(api model.RecipeAPI, store model.Store, tokens model.TokenSource, logger *logger.Logger) *Pantry {
	return &Pantry{
		api:      api,
		store:    store,
		tokens:   tokens,
		logger:   logger,
		ratings:  map[string]int{},
		selected: noSelection,

		latestRating: map[string]uint64{},
	}
}

// Restore loads the pantry, the cart and the rating overlay from the store.
// Unreadable or malformed values are treated as empty.
func (p *Pantry) Restore(ctx context.Context) {
	var (
		items   []string
		cart    []string
		ratings map[string]int
	)
	p.load(ctx, model.KeyPantryItems, &items)
	p.load(ctx, model.KeyShoppingCart, &cart)
	p.load(ctx, model.KeyRecipeRatings, &ratings)

	p.persistMu.Lock()
	defer p.persistMu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = union(nil, items)
	p.cart = union(nil, cart)
	p.ratings = map[string]int{}
	for title, v := range ratings {
		if v >= model.MinRating && v <= model.MaxRating {
			p.ratings[title] = v
		}
	}

	p.logger.Debug("Pantry service: state restored",
		"pantry", len(p.items),
		"cart", len(p.cart),
		"ratings", len(p.ratings))
}

func (p *Pantry) load(ctx context.Context, key string, v any) {
	if _, err := model.LoadJSON(ctx, p.store, key, v); err != nil {
		p.logger.Warn("Pantry service: ignoring unreadable value", "key", key, "error", err.Error())
	}
}

// AddPantryItems splits raw on commas and adds every new non-empty item.
// It returns the pantry after the change.
func (p *Pantry) AddPantryItems(ctx context.Context, raw string) ([]string, error) {
	items, err := p.updateList(ctx, model.KeyPantryItems, &p.items, func(current []string) ([]string, bool) {
		next := union(current, strings.Split(raw, ","))
		return next, len(next) != len(current)
	})
	if err != nil {
		return items, fmt.Errorf("failed to persist pantry: %w", err)
	}
	return items, nil
}

// RemovePantryItem removes name by exact match. Removing an absent item is a no-op.
func (p *Pantry) RemovePantryItem(ctx context.Context, name string) error {
	_, err := p.updateList(ctx, model.KeyPantryItems, &p.items, func(current []string) ([]string, bool) {
		return without(current, name)
	})
	if err != nil {
		return fmt.Errorf("failed to persist pantry: %w", err)
	}
	return nil
}

// updateList persists the changed copy of list under key and installs it only
// after the write succeeds. It returns the list as it stands afterwards.
func (p *Pantry) updateList(
	ctx context.Context,
	key string,
	list *[]string,
	change func([]string) ([]string, bool),
) ([]string, error) {
	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	p.mu.Lock()
	current := slices.Clone(*list)
	p.mu.Unlock()

	next, changed := change(current)
	if !changed {
		return current, nil
	}
	if err := model.SaveJSON(ctx, p.store, key, next); err != nil {
		return current, err
	}

	p.mu.Lock()
	*list = next
	p.mu.Unlock()
	return slices.Clone(next), nil
}

func (p *Pantry) PantryItems() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

// GenerateFromPantry asks the server for recipes built from items. Only the
// response of the latest issued generation replaces the result set.
func (p *Pantry) GenerateFromPantry(ctx context.Context, items []string, filters model.Filters) ([]model.Recipe, error) {
	items = union(nil, items)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: pantry items are required", model.ErrValidation)
	}

	p.logger.Debug("Pantry service: generating recipes", "items", len(items))

	return p.generate(ctx, "pantry", false, func(ctx context.Context) ([]model.Recipe, error) {
		return p.api.GenerateRecipes(ctx, items, filters)
	})
}

// GenerateRandom asks the server for count random recipes. On success the
// pantry is emptied, including its persisted copy.
func (p *Pantry) GenerateRandom(ctx context.Context, count int) ([]model.Recipe, error) {
	if count <= 0 {
		count = model.DefaultRandomCount
	}

	p.logger.Debug("Pantry service: generating random recipes", "count", count)

	return p.generate(ctx, "random", true, func(ctx context.Context) ([]model.Recipe, error) {
		return p.api.RandomRecipes(ctx, count)
	})
}

func (p *Pantry) generate(
	ctx context.Context,
	kind string,
	clearPantry bool,
	call func(context.Context) ([]model.Recipe, error),
) ([]model.Recipe, error) {
	p.mu.Lock()
	p.lastSeq++
	seq := p.lastSeq
	p.inFlight++
	p.mu.Unlock()

	recipes, err := settle(ctx, func(callCtx context.Context) ([]model.Recipe, error) {
		recipes, err := call(callCtx)

		if clearPantry {
			p.persistMu.Lock()
			defer p.persistMu.Unlock()
		}

		p.mu.Lock()
		p.inFlight--
		if seq != p.lastSeq || ctx.Err() != nil {
			p.mu.Unlock()
			return nil, model.ErrSuperseded
		}
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.recipes = recipes
		p.selected = noSelection
		p.applied = seq
		if clearPantry {
			p.items = nil
		}
		p.mu.Unlock()

		if clearPantry {
			if err := p.store.Delete(callCtx, model.KeyPantryItems); err != nil {
				p.logger.Warn("Pantry service: failed to clear persisted pantry", "error", err.Error())
			}
		}
		return slices.Clone(recipes), nil
	})

	if model.IsCancelled(err) {
		// The caller left after this response was applied.
		p.mu.Lock()
		if p.applied == seq && p.lastSeq == seq {
			recipes, err = slices.Clone(p.recipes), nil
		}
		p.mu.Unlock()
	}

	switch {
	case err == nil:
		p.logger.Info("Pantry service: recipes generated", "kind", kind, "recipes", len(recipes))
		return recipes, nil
	case model.IsCancelled(err):
		p.logger.Debug("Pantry service: generation result discarded", "kind", kind, "seq", seq)
		return nil, err
	default:
		p.logger.Warn("Pantry service: generation failed",
			"kind", kind,
			"reason", model.Reason(err, err.Error()))
		return nil, fmt.Errorf("%w: %w", model.ErrGeneration, err)
	}
}

// Loading reports whether any generation call is still in flight.
func (p *Pantry) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight > 0
}

func (p *Pantry) Recipes() []model.Recipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.recipes)
}

// Select toggles the selection of the recipe at index and reports whether it
// is selected afterwards.
func (p *Pantry) Select(index int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.recipes) {
		return false, fmt.Errorf("%w: no recipe at position %d", model.ErrValidation, index+1)
	}
	if p.selected == index {
		p.selected = noSelection
		return false, nil
	}
	p.selected = index
	return true, nil
}

func (p *Pantry) ClearSelection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = noSelection
}

func (p *Pantry) Selected() (model.Recipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == noSelection {
		return model.Recipe{}, false
	}
	return p.recipes[p.selected], true
}

// SelectedTitles returns the title of the selected recipe, or the titles of
// every generated recipe when nothing is selected.
func (p *Pantry) SelectedTitles() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selected != noSelection {
		return []string{p.recipes[p.selected].Title}
	}
	titles := make([]string, 0, len(p.recipes))
	for _, r := range p.recipes {
		titles = append(titles, r.Title)
	}
	return titles
}

// Favorite saves recipe to the user's favorites. Nothing changes locally.
func (p *Pantry) Favorite(ctx context.Context, recipe model.Recipe) error {
	token, ok := p.tokens.Token()
	if !ok {
		return model.ErrNotAuthenticated
	}
	if err := validateInput(favoriteInput{Title: recipe.Title}); err != nil {
		return err
	}

	_, err := settle(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.api.AddFavorite(ctx, token, recipe)
	})
	if err != nil {
		return p.failed("favorite", model.ErrFavorite, err)
	}

	p.logger.Info("Pantry service: recipe added to favorites", "title", recipe.Title)
	return nil
}

func (p *Pantry) Favorites(ctx context.Context) ([]model.Recipe, error) {
	token, ok := p.tokens.Token()
	if !ok {
		return nil, model.ErrNotAuthenticated
	}

	favorites, err := settle(ctx, func(ctx context.Context) ([]model.Recipe, error) {
		return p.api.ListFavorites(ctx, token)
	})
	if err != nil {
		return nil, p.failed("list favorites", model.ErrFavorite, err)
	}
	return favorites, nil
}

func (p *Pantry) RemoveFavorite(ctx context.Context, title string) error {
	token, ok := p.tokens.Token()
	if !ok {
		return model.ErrNotAuthenticated
	}
	if err := validateInput(favoriteInput{Title: title}); err != nil {
		return err
	}

	_, err := settle(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.api.RemoveFavorite(ctx, token, title)
	})
	if err != nil {
		return p.failed("remove favorite", model.ErrFavorite, err)
	}

	p.logger.Info("Pantry service: recipe removed from favorites", "title", title)
	return nil
}

// Rate sends the rating to the server and, once accepted, records it in the
// local overlay. A rejected rating leaves the overlay unchanged. When the
// same recipe is rated again before the server answers, only the latest
// rating reaches the overlay.
func (p *Pantry) Rate(ctx context.Context, recipe model.Recipe, value int) error {
	token, ok := p.tokens.Token()
	if !ok {
		return model.ErrNotAuthenticated
	}
	if err := validateInput(ratingInput{Title: recipe.Title, Rating: value}); err != nil {
		return err
	}

	p.mu.Lock()
	p.rateSeq++
	seq := p.rateSeq
	p.latestRating[recipe.Title] = seq
	p.mu.Unlock()

	_, err := settle(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.api.RateRecipe(ctx, token, recipe.Title, value)
	})
	if err != nil {
		return p.failed("rate", model.ErrRating, err)
	}

	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	p.mu.Lock()
	if p.latestRating[recipe.Title] != seq {
		p.mu.Unlock()
		p.logger.Debug("Pantry service: stale rating discarded", "title", recipe.Title, "rating", value)
		return model.ErrSuperseded
	}
	p.ratings[recipe.Title] = value
	ratings := maps.Clone(p.ratings)
	p.mu.Unlock()

	if err := model.SaveJSON(context.WithoutCancel(ctx), p.store, model.KeyRecipeRatings, ratings); err != nil {
		p.logger.Warn("Pantry service: failed to persist ratings", "error", err.Error())
	}

	p.logger.Info("Pantry service: recipe rated", "title", recipe.Title, "rating", value)
	return nil
}

// EffectiveRating returns the user's rating for recipe, falling back to the
// server rating and then to zero.
func (p *Pantry) EffectiveRating(recipe model.Recipe) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.ratings[recipe.Title]; ok && v > 0 {
		return float64(v)
	}
	if recipe.Rating != nil {
		return *recipe.Rating
	}
	return 0
}

func (p *Pantry) Ratings() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.ratings)
}

// AddToCart adds name to the shopping cart. Adding a present item is a no-op.
func (p *Pantry) AddToCart(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: item is required", model.ErrValidation)
	}

	_, err := p.updateList(ctx, model.KeyShoppingCart, &p.cart, func(current []string) ([]string, bool) {
		if slices.Contains(current, name) {
			return current, false
		}
		return append(current, name), true
	})
	if err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// RemoveFromCart removes name by exact match. Removing an absent item is a no-op.
func (p *Pantry) RemoveFromCart(ctx context.Context, name string) error {
	_, err := p.updateList(ctx, model.KeyShoppingCart, &p.cart, func(current []string) ([]string, bool) {
		return without(current, name)
	})
	if err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (p *Pantry) Cart() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.cart)
}

// MissingIngredients lists the ingredients of recipe that are not in the pantry.
func (p *Pantry) MissingIngredients(recipe model.Recipe) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var missing []string
	for _, ing := range recipe.Ingredients {
		if !slices.Contains(p.items, ing) {
			missing = append(missing, ing)
		}
	}
	return missing
}

func (p *Pantry) failed(op string, kind, err error) error {
	if model.IsCancelled(err) || errors.Is(err, model.ErrNotAuthenticated) {
		return err
	}
	p.logger.Warn("Pantry service: request failed",
		"op", op,
		"reason", model.Reason(err, err.Error()))
	return fmt.Errorf("%w: %w", kind, err)
}

// union appends the trimmed non-empty values of add that base lacks,
// preserving order.
func union(base, add []string) []string {
	out := slices.Clone(base)
	for _, v := range add {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func without(list []string, name string) ([]string, bool) {
	i := slices.Index(list, name)
	if i < 0 {
		return list, false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}
