// ABOUTME: Admin commands for the storefront CLI
// ABOUTME: Product management and the bestsellers report, gated on an admin session

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

var (
	productForm   validation.ProductForm
	confirmDelete bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage products and view sales (admins only)",
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products with stock levels",
	Run: func(cmd *cobra.Command, args []string) {
		run(runAdminProducts)
	},
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a product",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runAdminSave(ctx, w, "", nil)
		})
	},
}

var adminUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a product; only the flags given are changed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runAdminSave(ctx, w, args[0], cmd.Flags().Changed)
		})
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runAdminDelete(ctx, w, args[0])
		})
	},
}

var adminBestsellersCmd = &cobra.Command{
	Use:   "bestsellers",
	Short: "Show the bestsellers report",
	Run: func(cmd *cobra.Command, args []string) {
		run(runBestsellers)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminProductsCmd, adminCreateCmd, adminUpdateCmd, adminDeleteCmd, adminBestsellersCmd)

	for _, c := range []*cobra.Command{adminCreateCmd, adminUpdateCmd} {
		c.Flags().StringVar(&productForm.Name, "name", "", "Product name")
		c.Flags().StringVar(&productForm.Description, "description", "", "Description (20-1000 characters)")
		c.Flags().StringVar(&productForm.Price, "price", "", "Price in KSh")
		c.Flags().StringVar(&productForm.Stock, "stock", "", "Units in stock")
		c.Flags().StringVar(&productForm.ImageURL, "image", "", "Image URL or /path")
	}
	adminDeleteCmd.Flags().BoolVar(&confirmDelete, "yes", false, "Delete without asking")
}

// requireAdmin prints the refusal and reports whether to continue
func requireAdmin(w io.Writer, sf *storefront.Storefront) (int, bool) {
	if err := sf.RequireAdmin(); err != nil {
		return fail(w, err), false
	}
	return exitOK, true
}

// runAdminProducts lists every product with a stock status and returns exit code
func runAdminProducts(ctx context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		if code, ok := requireAdmin(w, sf); !ok {
			return code
		}
		products, err := sf.API.ListProducts(ctx)
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, products)
			return exitOK
		}
		if len(products) == 0 {
			fmt.Fprintln(w, "No products yet.")
			return exitOK
		}
		low, out := 0, 0
		rows := make([][]string, 0, len(products))
		for _, p := range products {
			switch widgets.StockLevel(p.Stock) {
			case widgets.StatusCritical:
				out++
			case widgets.StatusWarning:
				low++
			}
			rows = append(rows, []string{
				strconv.FormatInt(p.ID, 10),
				p.Name,
				styles.Money(p.Price),
				strconv.Itoa(p.Stock),
				widgets.StockText(p.Stock),
			})
		}
		fmt.Fprintln(w, newTable("ID", "Name", "Price", "Stock", "Status").Rows(rows...).String())
		fmt.Fprintf(w, "%d products, %d low stock, %d sold out\n", len(products), low, out)
		return exitOK
	})
}

// runAdminSave creates (empty arg) or updates a product and returns exit
// code. changed reports which flags were given on update.
func runAdminSave(ctx context.Context, w io.Writer, arg string, changed func(string) bool) int {
	var id int64
	if arg != "" {
		var err error
		if id, err = parseID(arg); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		if code, ok := requireAdmin(w, sf); !ok {
			return code
		}

		form := productForm
		if id != 0 {
			existing, err := sf.API.GetProduct(ctx, id)
			if err != nil {
				return fail(w, err)
			}
			form = mergeProductForm(validation.FormFromProduct(*existing), productForm, changed)
		}

		in, err := validation.Product(form)
		if err != nil {
			return fail(w, err)
		}

		var saved *client.Product
		if id == 0 {
			saved, err = sf.API.CreateProduct(ctx, in)
		} else {
			saved, err = sf.API.UpdateProduct(ctx, id, in)
		}
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, saved)
			return exitOK
		}
		verb := "Updated"
		if id == 0 {
			verb = "Added"
		}
		fmt.Fprintf(w, "%s %s (#%d) at %s, %d in stock\n", verb, saved.Name, saved.ID, styles.Money(saved.Price), saved.Stock)
		return exitOK
	})
}

// mergeProductForm overlays the flags that were given onto base
func mergeProductForm(base, flags validation.ProductForm, changed func(string) bool) validation.ProductForm {
	if changed == nil {
		return flags
	}
	if changed("name") {
		base.Name = flags.Name
	}
	if changed("description") {
		base.Description = flags.Description
	}
	if changed("price") {
		base.Price = flags.Price
	}
	if changed("stock") {
		base.Stock = flags.Stock
	}
	if changed("image") {
		base.ImageURL = flags.ImageURL
	}
	return base
}

// runAdminDelete removes a product after confirmation and returns exit code
func runAdminDelete(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		if code, ok := requireAdmin(w, sf); !ok {
			return code
		}
		p, err := sf.API.GetProduct(ctx, id)
		if err != nil {
			return fail(w, err)
		}

		if !confirmDelete {
			if !interactive() {
				fmt.Fprintln(w, "Error: refusing to delete without --yes")
				return exitError
			}
			yes := false
			err := prompt(huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s? This cannot be undone.", p.Name)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&yes))
			if err != nil || !yes {
				fmt.Fprintln(w, "Cancelled.")
				return exitOK
			}
		}

		if err := sf.API.DeleteProduct(ctx, id); err != nil {
			return fail(w, err)
		}
		fmt.Fprintf(w, "Deleted %s\n", p.Name)
		return exitOK
	})
}

// runBestsellers prints the sales report and returns exit code
func runBestsellers(ctx context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		if code, ok := requireAdmin(w, sf); !ok {
			return code
		}
		rows, err := sf.API.Bestsellers(ctx)
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, rows)
		} else {
			fmt.Fprintln(w, formatBestsellersHuman(rows))
		}
		return exitOK
	})
}

// formatBestsellersHuman ranks products with a bar scaled to the top seller
func formatBestsellersHuman(rows []client.Bestseller) string {
	if len(rows) == 0 {
		return "No sales yet."
	}
	top := 0
	for _, r := range rows {
		top = max(top, r.UnitsSold)
	}

	table := make([][]string, 0, len(rows))
	for i, r := range rows {
		table = append(table, []string{
			fmt.Sprintf("%d.", i+1),
			r.Name,
			strconv.Itoa(r.UnitsSold),
			styles.Money(r.Revenue),
			widgets.Bar(r.UnitsSold, top, 20, styles.Secondary),
		})
	}
	return newTable("#", "Product", "Units", "Revenue", "").Rows(table...).String()
}
