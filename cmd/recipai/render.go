package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dtroode/recipai/internal/model"
)

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s is empty.\n", title)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", title, strings.Join(items, ", "))
}

func printRecipes(w io.Writer, a *app, recipes []model.Recipe) {
	for i, r := range recipes {
		fmt.Fprintf(w, "%d. %s%s\n", i+1, r.Title, ratingSuffix(a.pantry.EffectiveRating(r)))
	}
}

func printRecipe(w io.Writer, a *app, r model.Recipe) {
	fmt.Fprintf(w, "%s%s\n", r.Title, ratingSuffix(a.pantry.EffectiveRating(r)))

	missing := a.pantry.MissingIngredients(r)
	cart := a.pantry.Cart()
	fmt.Fprintln(w, "Ingredients:")
	for _, ing := range r.Ingredients {
		switch {
		case slices.Contains(cart, ing):
			fmt.Fprintf(w, "  - %s (in cart)\n", ing)
		case slices.Contains(missing, ing):
			fmt.Fprintf(w, "  - %s (missing)\n", ing)
		default:
			fmt.Fprintf(w, "  - %s\n", ing)
		}
	}

	fmt.Fprintln(w, "Instructions:")
	for i, step := range r.Instructions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
}

func printShopping(w io.Writer, items []model.ShoppingItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Shopping list is empty.")
		return
	}
	for _, it := range items {
		line := fmt.Sprintf("- %s x%d", it.Item, it.Count)
		switch {
		case it.IsSearching:
			line += "  [searching...]"
		case it.Deal != "" && it.DealLink != "":
			line += fmt.Sprintf("  [%s: %s]", it.Deal, it.DealLink)
		case it.Deal != "":
			line += fmt.Sprintf("  [%s]", it.Deal)
		}
		fmt.Fprintln(w, line)
	}
}

func ratingSuffix(v float64) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("  (%.1f/5)", v)
}
