package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apierrors "github.com/dtroode/recipai/internal/api/errors"
	"github.com/dtroode/recipai/internal/model"
)

const protectedAnnotation = "protected"

var (
	errLoginRequired = errors.New("please log in first: recipai login <email> <password>")
	errInitializing  = errors.New("session is still initializing, try again")
	errNoRecipes     = errors.New("no recipes yet: run generate or random first")
)

func newRootCommand(a *app, in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "recipai",
		Short:         "Recipe suggestions from what is in your pantry",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[protectedAnnotation] == "" {
				return nil
			}
			switch a.session.Guard() {
			case model.GuardRender:
				return nil
			case model.GuardRedirect:
				return errLoginRequired
			default:
				return errInitializing
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.interactive {
				return cmd.Help()
			}
			return runShell(cmd.Context(), a, in, out)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		protect(newWhoamiCommand(a)),
		protect(newPantryCommand(a)),
		protect(newCartCommand(a)),
		protect(newGenerateCommand(a)),
		protect(newRandomCommand(a)),
		protect(newRecipesCommand(a)),
		protect(newShowCommand(a)),
		protect(newFavoriteCommand(a)),
		protect(newFavoritesCommand(a)),
		protect(newUnfavoriteCommand(a)),
		protect(newRateCommand(a)),
		protect(newShoppingCommand(a)),
	)
	return root
}

// protect marks cmd and its subcommands as requiring an authenticated session.
func protect(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[protectedAnnotation] = "true"
	for _, sub := range cmd.Commands() {
		protect(sub)
	}
	return cmd
}

// report renders a service error for the user. Cancelled operations are silent.
func report(err error) error {
	if err == nil {
		return nil
	}
	msg := apierrors.Translate(err)
	if msg.IsZero() {
		return nil
	}
	return errors.New(msg.Text)
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in to an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Login(cmd.Context(), args[0], args[1]); err != nil {
				return report(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", a.session.Identity().Username)
			return nil
		},
	}
}

func newSignupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email> <password> <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Signup(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return report(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", a.session.Identity().Username)
			return nil
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			id := a.session.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", id.Username, id.Email)
		},
	}
}

func newPantryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage pantry ingredients",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printList(cmd.OutOrStdout(), "Pantry", a.pantry.PantryItems())
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <items>",
			Short: "Add comma separated ingredients",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := a.pantry.AddPantryItems(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				printList(cmd.OutOrStdout(), "Pantry", items)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <item>",
			Short: "Remove an ingredient",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.pantry.RemovePantryItem(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
				printList(cmd.OutOrStdout(), "Pantry", a.pantry.PantryItems())
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List pantry ingredients",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printList(cmd.OutOrStdout(), "Pantry", a.pantry.PantryItems())
			},
		},
	)
	return cmd
}

func newCartCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage extra shopping items",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printList(cmd.OutOrStdout(), "Cart", a.pantry.Cart())
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <item>",
			Short: "Add an item to the cart",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.pantry.AddToCart(cmd.Context(), strings.Join(args, " ")); err != nil {
					return report(err)
				}
				printList(cmd.OutOrStdout(), "Cart", a.pantry.Cart())
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <item>",
			Short: "Remove an item from the cart",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.pantry.RemoveFromCart(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
				printList(cmd.OutOrStdout(), "Cart", a.pantry.Cart())
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List cart items",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printList(cmd.OutOrStdout(), "Cart", a.pantry.Cart())
			},
		},
	)
	return cmd
}

func newGenerateCommand(a *app) *cobra.Command {
	var filters model.Filters
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Suggest recipes from the pantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipes, err := a.pantry.GenerateFromPantry(cmd.Context(), a.pantry.PantryItems(), filters)
			if err != nil {
				return report(err)
			}
			printRecipes(cmd.OutOrStdout(), a, recipes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&filters.Vegan, "vegan", false, "only vegan recipes")
	cmd.Flags().BoolVar(&filters.NonDairy, "non-dairy", false, "only dairy free recipes")
	cmd.Flags().BoolVar(&filters.Kosher, "kosher", false, "only kosher recipes")
	return cmd
}

func newRandomCommand(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Suggest random recipes and empty the pantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipes, err := a.pantry.GenerateRandom(cmd.Context(), count)
			if err != nil {
				return report(err)
			}
			printRecipes(cmd.OutOrStdout(), a, recipes)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", model.DefaultRandomCount, "number of recipes")
	return cmd
}

func newRecipesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the latest suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipes := a.pantry.Recipes()
			if len(recipes) == 0 {
				return errNoRecipes
			}
			printRecipes(cmd.OutOrStdout(), a, recipes)
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <n>",
		Short: "Open or close a recipe; an open recipe scopes the shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := recipeIndex(a, args[0])
			if err != nil {
				return err
			}
			open, err := a.pantry.Select(i)
			if err != nil {
				return report(err)
			}
			if !open {
				fmt.Fprintln(cmd.OutOrStdout(), "Recipe closed.")
				return nil
			}
			r, _ := a.pantry.Selected()
			printRecipe(cmd.OutOrStdout(), a, r)
			return nil
		},
	}
}

func newFavoriteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <n>",
		Short: "Save a suggested recipe to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := recipeIndex(a, args[0])
			if err != nil {
				return err
			}
			r := a.pantry.Recipes()[i]
			if err := a.pantry.Favorite(cmd.Context(), r); err != nil {
				return report(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to favorites.\n", r.Title)
			return nil
		},
	}
}

func newFavoritesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			favorites, err := a.pantry.Favorites(cmd.Context())
			if err != nil {
				return report(err)
			}
			if len(favorites) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet.")
				return nil
			}
			printRecipes(cmd.OutOrStdout(), a, favorites)
			return nil
		},
	}
}

func newUnfavoriteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unfavorite <title>",
		Short: "Remove a recipe from favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if err := a.pantry.RemoveFavorite(cmd.Context(), title); err != nil {
				return report(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from favorites.\n", title)
			return nil
		},
	}
}

func newRateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <n> <1-5>",
		Short: "Rate a suggested recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := recipeIndex(a, args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number between %d and %d", model.MinRating, model.MaxRating)
			}
			r := a.pantry.Recipes()[i]
			if err := a.pantry.Rate(cmd.Context(), r, value); err != nil {
				return report(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rated %q %d/5.\n", r.Title, value)
			return nil
		},
	}
}

func newShoppingCommand(a *app) *cobra.Command {
	var (
		recipe   int
		deals    bool
		lat, lon float64
	)
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Build the shopping list for the open recipe, or for all suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if recipe > 0 {
				if _, ok := a.pantry.Selected(); ok {
					a.pantry.ClearSelection()
				}
				if _, err := a.pantry.Select(recipe - 1); err != nil {
					return report(err)
				}
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				a.shopping.SetLocation(&model.Location{Lat: lat, Lon: lon})
			}

			res, err := a.shopping.BuildFromPantry(cmd.Context(), a.pantry)
			if err != nil {
				return report(err)
			}
			if res.Empty {
				fmt.Fprintln(out, "Nothing to buy, you have everything.")
				return nil
			}

			if deals {
				results, err := a.shopping.LookupAllDeals(cmd.Context())
				for _, r := range results {
					if !r.Found {
						fmt.Fprintf(out, "No deals found for %s.\n", r.Item)
					}
				}
				if err != nil {
					fmt.Fprintln(out, "Some deals could not be loaded:", report(err))
				}
			}
			printShopping(out, a.shopping.Items())
			return nil
		},
	}
	cmd.Flags().IntVar(&recipe, "recipe", 0, "open recipe n before building")
	cmd.Flags().BoolVar(&deals, "deals", false, "look up deals for every item")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude for local deals")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude for local deals")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Show the current shopping list",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printShopping(cmd.OutOrStdout(), a.shopping.Items())
			},
		},
		&cobra.Command{
			Use:   "deal <item>",
			Short: "Look up a deal for one item",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				item := strings.Join(args, " ")
				res, err := a.shopping.FetchDeal(cmd.Context(), item)
				if err != nil {
					if errors.Is(err, model.ErrNotFound) {
						return fmt.Errorf("%s is not on the shopping list", item)
					}
					return report(err)
				}
				if !res.Found {
					fmt.Fprintf(cmd.OutOrStdout(), "No deals found for %s.\n", item)
				}
				printShopping(cmd.OutOrStdout(), a.shopping.Items())
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <item>",
			Short: "Drop an item from the current list",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				item := strings.Join(args, " ")
				if !a.shopping.DeleteItem(item) {
					return fmt.Errorf("%s is not on the shopping list", item)
				}
				printShopping(cmd.OutOrStdout(), a.shopping.Items())
				return nil
			},
		},
	)
	return cmd
}

func recipeIndex(a *app, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("recipe number must be a positive integer, got %q", arg)
	}
	count := len(a.pantry.Recipes())
	if count == 0 {
		return 0, errNoRecipes
	}
	if n > count {
		return 0, fmt.Errorf("there are only %d recipes", count)
	}
	return n - 1, nil
}
