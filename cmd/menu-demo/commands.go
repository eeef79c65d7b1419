package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"phoneline/internal/auth"
	"phoneline/internal/menu"
	"phoneline/internal/order"
	"phoneline/internal/restaurant"
)

// =============================================================================
// LIST
// =============================================================================

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the restaurant, its categories and every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			info := restaurant.NewInfo(doc.Restaurant)
			m := menu.Normalize(doc)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Restaurant: %s\n", info.Name())
			fmt.Fprintf(out, "Address: %s\n", info.Address())
			fmt.Fprintf(out, "Hours:\n%s\n", info.FormattedOpeningHours())
			fmt.Fprintf(out, "\nCategories available: %s\n", joinOrNone(m.CategoryList))

			fmt.Fprintln(out, "\n===== MENU ITEMS =====")
			for _, item := range m.ItemList {
				fmt.Fprintf(out, "• %s - $%.2f\n", item.Name, item.Price)
			}
			return nil
		},
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

// =============================================================================
// SHOW
// =============================================================================

func newShowCmd(a *app) *cobra.Command {
	var selected []string

	cmd := &cobra.Command{
		Use:   "show <item>",
		Short: "Show an item's customizations and, with --select, its final price",
		Example: `  menu-demo show "Tandoori Momo"
  menu-demo show "Tandoori Momo" --select "Veg or Non Veg=Non Veg" --select "Quantity=Large (10 pcs)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := parseSelections(selected)
			if err != nil {
				return err
			}

			doc, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			details := menu.FindItemDetails(menu.Normalize(doc), args[0])
			if details == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Item '%s' not found in the menu.\n", args[0])
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), menu.FormatItemDetails(details, selections))
			if missing := menu.MissingRequired(details, selections); selections != nil && len(missing) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Missing required: %s\n", joinOrNone(missing))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&selected, "select", "s", nil, `selected option as "Customization=Option" (repeatable)`)
	return cmd
}

// =============================================================================
// DEMO
// =============================================================================

// conversation is the order taken in the reference phone call.
var conversation = []order.Selection{
	{Item: "Tandoori Momo", Customizations: map[string]string{"Veg or Non Veg": "Non Veg"}},
	{Item: "Soya Malai Chaap-Must Try", Customizations: map[string]string{"Extra Malai": "Extra Malai (more creamy)"}},
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Price the items ordered in the reference conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			m := menu.Normalize(doc)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "\n===== ITEMS FROM THE CONVERSATION =====")
			for _, sel := range conversation {
				fmt.Fprintln(out, menu.FormatItemDetails(menu.FindItemDetails(m, sel.Item), sel.Customizations))
			}

			o, err := order.Build(m, conversation)
			if err != nil {
				fmt.Fprintf(out, "\nOrder summary unavailable: %v\n", err)
			} else {
				fmt.Fprintln(out, "\n===== ORDER SUMMARY =====")
				fmt.Fprintln(out, order.Describe(o))
			}

			fmt.Fprintln(out, "\nThank you for using the restaurant menu explorer!")
			return nil
		},
	}
}

// =============================================================================
// TOKEN
// =============================================================================

func newTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			tokens, err := auth.NewTokens(os.Getenv("JWT_SECRET"), ttl)
			if err != nil {
				return err
			}

			token, err := tokens.Generate(userID, email, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "dev", "user id claim")
	cmd.Flags().StringVar(&email, "email", "dev@localhost", "email claim")
	cmd.Flags().StringVar(&role, "role", auth.RoleTester, "role claim (TESTER or ADMIN)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
