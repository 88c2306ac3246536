package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/metrics"
	"github.com/dtroode/recipai/internal/model"
)

const defaultDealConcurrency = 4

// DealObserver records the outcome of every settled deal lookup.
type DealObserver interface {
	ObserveDealLookup(outcome string)
}

// Outcome is the result of a shopping list derivation. Empty marks the
// informational "nothing to buy" result.
type Outcome struct {
	Items []model.ShoppingItem
	Empty bool
}

type dealLookup struct {
	cancel context.CancelFunc
	prev   model.ShoppingItem
}

// Shopping owns the derived shopping list and its per-item deal lookups.
type Shopping struct {
	api         model.ShoppingAPI
	tokens      model.TokenSource
	logger      *logger.Logger
	metrics     DealObserver
	concurrency int

	mu       sync.Mutex
	items    []model.ShoppingItem
	location *model.Location
	active   map[string]*dealLookup
}

// NewShopping creates a Shopping service. observer may be nil.
func NewShopping(
	api model.ShoppingAPI,
	tokens model.TokenSource,
	logger *logger.Logger,
	observer DealObserver,
	concurrency int,
) *Shopping {
	if concurrency <= 0 {
		concurrency = defaultDealConcurrency
	}
	return &Shopping{
		api:         api,
		tokens:      tokens,
		logger:      logger,
		metrics:     observer,
		concurrency: concurrency,
		active:      map[string]*dealLookup{},
	}
}

// Build derives the shopping list from the pantry, the recipe titles and the
// cart, replacing the current list. Entries are ordered by item name.
func (s *Shopping) Build(ctx context.Context, pantry, titles, cart []string) (Outcome, error) {
	token, ok := s.tokens.Token()
	if !ok {
		return Outcome{}, model.ErrNotAuthenticated
	}

	req := model.ShoppingListRequest{
		PantryItems:     pantry,
		RecipeTitles:    titles,
		AdditionalItems: cart,
	}

	s.logger.Debug("Shopping service: deriving list",
		"pantry", len(pantry),
		"recipes", len(titles),
		"cart", len(cart))

	counts, err := settle(ctx, func(ctx context.Context) (map[string]int, error) {
		return s.api.ShoppingList(ctx, token, req)
	})
	if err != nil {
		if model.IsCancelled(err) || errors.Is(err, model.ErrNotAuthenticated) {
			return Outcome{}, err
		}
		s.logger.Warn("Shopping service: derivation failed", "reason", model.Reason(err, err.Error()))
		return Outcome{}, fmt.Errorf("%w: %w", model.ErrDerivation, err)
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]model.ShoppingItem, 0, len(names))
	for _, name := range names {
		items = append(items, model.ShoppingItem{Item: name, Count: counts[name]})
	}

	s.mu.Lock()
	s.cancelAllLocked()
	s.items = items
	s.mu.Unlock()

	s.logger.Info("Shopping service: list derived", "items", len(items))
	return Outcome{Items: slices.Clone(items), Empty: len(items) == 0}, nil
}

// BuildFromPantry derives the list for the selected recipe, or for every
// generated recipe when none is selected.
func (s *Shopping) BuildFromPantry(ctx context.Context, pantry *Pantry) (Outcome, error) {
	return s.Build(ctx, pantry.PantryItems(), pantry.SelectedTitles(), pantry.Cart())
}

// SetLocation sets the geolocation hint sent with deal lookups. nil clears it.
func (s *Shopping) SetLocation(loc *model.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc == nil {
		s.location = nil
		return
	}
	l := *loc
	s.location = &l
}

// FetchDeal looks up a deal for one list entry. A lookup already running for
// the same item is cancelled and replaced. A cancelled lookup leaves the entry
// as it was before the lookup started and returns ErrCancelled.
func (s *Shopping) FetchDeal(ctx context.Context, item string) (model.DealResult, error) {
	if err := validateInput(dealInput{Item: item}); err != nil {
		return model.DealResult{}, err
	}
	token, ok := s.tokens.Token()
	if !ok {
		return model.DealResult{}, model.ErrNotAuthenticated
	}

	lookupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	i := s.indexLocked(item)
	if i < 0 {
		s.mu.Unlock()
		return model.DealResult{}, fmt.Errorf("%w: %q is not on the shopping list", model.ErrNotFound, item)
	}

	l := &dealLookup{cancel: cancel, prev: s.items[i]}
	if prior, ok := s.active[item]; ok {
		prior.cancel()
		l.prev = prior.prev
	}
	s.active[item] = l
	s.items[i].IsSearching = true
	location := s.location
	s.mu.Unlock()

	s.logger.Debug("Shopping service: deal lookup started", "item", item)

	deals, err := s.api.LookupDeals(lookupCtx, token, []string{item}, location)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active[item] != l {
		s.observe(metrics.DealCancelled)
		return model.DealResult{}, fmt.Errorf("%w: lookup for %q was replaced", model.ErrCancelled, item)
	}
	delete(s.active, item)

	if err != nil && (model.IsCancelled(err) || lookupCtx.Err() != nil) {
		s.restoreLocked(item, l.prev)
		s.observe(metrics.DealCancelled)
		s.logger.Debug("Shopping service: deal lookup cancelled", "item", item)
		return model.DealResult{}, fmt.Errorf("%w: %w", model.ErrCancelled, err)
	}

	i = s.indexLocked(item)
	if err != nil {
		if i >= 0 {
			s.items[i].IsSearching = false
		}
		s.observe(metrics.DealFailed)
		s.logger.Warn("Shopping service: deal lookup failed",
			"item", item,
			"reason", model.Reason(err, err.Error()))
		return model.DealResult{}, fmt.Errorf("%w: %w", model.ErrDealLookup, err)
	}

	deal, found := deals[item]
	found = found && deal.Description != ""
	result := model.DealResult{Item: item, Deal: deal, Found: found}

	if i >= 0 {
		s.items[i].IsSearching = false
		if found {
			s.items[i].Deal = deal.Description
			s.items[i].DealLink = deal.Link
		} else {
			s.items[i].Deal = model.NoDealMarker
			s.items[i].DealLink = ""
		}
	}

	if found {
		s.observe(metrics.DealFound)
	} else {
		s.observe(metrics.DealNotFound)
	}
	s.logger.Debug("Shopping service: deal lookup settled", "item", item, "found", found)
	return result, nil
}

// CancelDeal aborts the lookup running for item, if any, and restores the
// entry to its state before the lookup.
func (s *Shopping) CancelDeal(item string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.active[item]
	if !ok {
		return false
	}
	l.cancel()
	delete(s.active, item)
	s.restoreLocked(item, l.prev)
	return true
}

// CancelAll aborts every running lookup.
func (s *Shopping) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *Shopping) cancelAllLocked() {
	for item, l := range s.active {
		l.cancel()
		delete(s.active, item)
		s.restoreLocked(item, l.prev)
	}
}

// LookupAllDeals fetches deals for every entry with bounded concurrency.
// Cancelled lookups are not reported; other failures are joined.
func (s *Shopping) LookupAllDeals(ctx context.Context) ([]model.DealResult, error) {
	items := s.Items()

	var (
		g       errgroup.Group
		mu      sync.Mutex
		results []model.DealResult
		errs    []error
	)
	g.SetLimit(s.concurrency)

	for _, entry := range items {
		entry := entry
		g.Go(func() error {
			res, err := s.FetchDeal(ctx, entry.Item)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				results = append(results, res)
			case !model.IsCancelled(err):
				errs = append(errs, fmt.Errorf("%s: %w", entry.Item, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Item < results[j].Item })
	return results, errors.Join(errs...)
}

// DeleteItem removes an entry from the derived list only.
func (s *Shopping) DeleteItem(item string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(item)
	if i < 0 {
		return false
	}
	if l, ok := s.active[item]; ok {
		l.cancel()
		delete(s.active, item)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *Shopping) Items() []model.ShoppingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Shopping) indexLocked(item string) int {
	return slices.IndexFunc(s.items, func(e model.ShoppingItem) bool { return e.Item == item })
}

func (s *Shopping) restoreLocked(item string, prev model.ShoppingItem) {
	if i := s.indexLocked(item); i >= 0 {
		s.items[i] = prev
	}
}

func (s *Shopping) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveDealLookup(outcome)
	}
}
