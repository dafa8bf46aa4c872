// ABOUTME: Account commands for the storefront CLI
// ABOUTME: Shows and edits the profile, lists orders and checks out a cart built from flags

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/account"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

var (
	profileName    string
	profileEmail   string
	profilePhone   string
	profileAddress string

	checkoutItems []string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long:  `Show your profile. Any of --name, --email, --phone or --address updates it instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(runProfile)
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	Run: func(cmd *cobra.Command, args []string) {
		run(runOrders)
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order",
	Long: `Build a cart from --item flags and place the order.

Each --item is a product id with an optional quantity, for example:
  storefront checkout --item 3 --item 7:2`,
	Run: func(cmd *cobra.Command, args []string) {
		run(runCheckout)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd, ordersCmd, checkoutCmd)

	profileCmd.Flags().StringVar(&profileName, "name", "", "New name")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "New email")
	profileCmd.Flags().StringVar(&profilePhone, "phone", "", "New phone number")
	profileCmd.Flags().StringVar(&profileAddress, "address", "", "New address")

	checkoutCmd.Flags().StringArrayVar(&checkoutItems, "item", nil, "Product id with optional quantity (id[:qty])")
}

func profileEdited() bool {
	return profileName != "" || profileEmail != "" || profilePhone != "" || profileAddress != ""
}

// runProfile shows or updates the profile and returns exit code
func runProfile(ctx context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		current := sf.Session.User()
		if current == nil {
			return fail(w, storefront.ErrNotSignedIn)
		}

		if profileEdited() {
			in := client.ProfileUpdate{
				Name:    pick(profileName, current.Name),
				Email:   pick(profileEmail, current.Email),
				Phone:   pick(profilePhone, current.Phone),
				Address: pick(profileAddress, current.Address),
			}
			if err := sf.UpdateProfile(ctx, in); err != nil {
				return fail(w, err)
			}
			if !IsJSONOutput() {
				fmt.Fprintln(w, "Profile updated.")
			}
		}

		profile, err := sf.API.GetProfile(ctx)
		if err != nil {
			return fail(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, profile)
		} else {
			fmt.Fprintln(w, formatProfileHuman(profile))
		}
		return exitOK
	})
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// formatProfileHuman formats a profile for the terminal
func formatProfileHuman(u *session.User) string {
	return fmt.Sprintf(`Name:    %s
Email:   %s
Phone:   %s
Address: %s`, u.Name, u.Email, pick(u.Phone, "-"), pick(u.Address, "-"))
}

// runOrders lists order history and returns exit code
func runOrders(ctx context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		if !sf.Session.IsAuthenticated() {
			return fail(w, storefront.ErrNotSignedIn)
		}
		orders, err := sf.API.ListOrders(ctx)
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, orders)
		} else {
			fmt.Fprintln(w, formatOrdersHuman(orders))
		}
		return exitOK
	})
}

// formatOrdersHuman renders order history as a table with a spend total
func formatOrdersHuman(orders []client.Order) string {
	if len(orders) == 0 {
		return "No orders yet."
	}

	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		var items []string
		for _, it := range o.Items {
			name := it.ProductName
			if name == "" {
				name = "product " + strconv.FormatInt(it.ProductID, 10)
			}
			items = append(items, fmt.Sprintf("%d x %s", it.Quantity, name))
		}
		rows = append(rows, []string{
			"#" + strconv.FormatInt(o.ID, 10),
			shortDate(o.OrderDate),
			pick(o.Status, "unknown"),
			strings.Join(items, ", "),
			styles.Money(o.TotalAmount),
		})
	}
	out := newTable("Order", "Date", "Status", "Items", "Total").Rows(rows...).String()
	return out + fmt.Sprintf("\n%d orders, %s spent", len(orders), styles.Money(account.TotalSpent(orders)))
}

func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

type itemFlag struct {
	id       int64
	quantity int
}

// parseItem reads "id" or "id:qty"
func parseItem(s string) (itemFlag, error) {
	idPart, qtyPart, hasQty := strings.Cut(s, ":")
	id, err := parseID(idPart)
	if err != nil {
		return itemFlag{}, fmt.Errorf("invalid item %q: %w", s, err)
	}
	qty := 1
	if hasQty {
		qty, err = validation.Quantity(qtyPart)
		if err != nil || qty < 1 {
			return itemFlag{}, fmt.Errorf("invalid quantity in item %q", s)
		}
	}
	return itemFlag{id: id, quantity: qty}, nil
}

// runCheckout fills the cart from --item flags, places the order and
// returns exit code
func runCheckout(ctx context.Context, w io.Writer) int {
	if len(checkoutItems) == 0 {
		fmt.Fprintln(w, "Error: at least one --item is required")
		return exitError
	}
	items := make([]itemFlag, 0, len(checkoutItems))
	for _, raw := range checkoutItems {
		item, err := parseItem(raw)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		items = append(items, item)
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		if !sf.Session.IsAuthenticated() {
			return fail(w, storefront.ErrNotSignedIn)
		}
		for _, item := range items {
			p, err := sf.API.GetProduct(ctx, item.id)
			if err != nil {
				return fail(w, err)
			}
			fillCart(sf.Cart, *p, item.quantity)
		}
		total := sf.Cart.CartTotal()
		count := sf.Cart.CartItemsCount()

		resp, err := sf.Checkout(ctx)
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, resp)
		} else {
			fmt.Fprintf(w, "Order #%d placed: %d items, %s\n", resp.OrderID, count, styles.Money(total))
		}
		return exitOK
	})
}

// fillCart adds quantity units of p, merging repeated --item flags
func fillCart(c *cart.Store, p client.Product, quantity int) {
	existing, _ := c.Get(p.ID)
	c.AddToCart(p.CartProduct())
	c.UpdateQuantity(p.ID, existing.Quantity+quantity)
}
