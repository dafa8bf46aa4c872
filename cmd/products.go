// ABOUTME: Catalog commands for the storefront CLI
// ABOUTME: Lists and searches products, shows one product with reviews, posts reviews

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

var (
	productSearch string
	reviewRating  string
	reviewComment string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	Long:  `List the catalog. --search keeps products whose name or description contains the query.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(runProducts)
	},
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show a product and its reviews",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runProduct(ctx, w, args[0])
		})
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Review a product",
	Long:  `Post a 1-5 star review for a product. Requires a signed-in session.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runReview(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(reviewCmd)
	productsCmd.Flags().StringVar(&productSearch, "search", "", "Filter by name or description")
	reviewCmd.Flags().StringVar(&reviewRating, "rating", "", "Rating from 1 to 5")
	reviewCmd.Flags().StringVar(&reviewComment, "comment", "", "Review text (at least 10 characters)")
}

// runProducts lists the catalog and returns exit code
func runProducts(ctx context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		products, err := sf.API.ListProducts(ctx)
		if err != nil {
			return fail(w, err)
		}
		products = client.FilterProducts(products, productSearch)

		if IsJSONOutput() {
			printJSON(w, products)
		} else {
			fmt.Fprintln(w, formatProductsHuman(products, productSearch))
		}
		return exitOK
	})
}

// formatProductsHuman renders the catalog as a table
func formatProductsHuman(products []client.Product, query string) string {
	if len(products) == 0 {
		if query != "" {
			return fmt.Sprintf("No products match %q", query)
		}
		return "No products available"
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			styles.Money(p.Price),
			widgets.StockText(p.Stock),
		})
	}
	return newTable("ID", "Name", "Price", "Stock").Rows(rows...).String()
}

// parseID reads a positive numeric id argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

type productDetail struct {
	Product *client.Product `json:"product"`
	Reviews []client.Review `json:"reviews"`
}

// runProduct shows one product with its reviews and returns exit code
func runProduct(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		var detail productDetail
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := sf.API.GetProduct(gctx, id)
			detail.Product = p
			return err
		})
		g.Go(func() error {
			reviews, err := sf.API.ListReviews(gctx, id)
			detail.Reviews = reviews
			return err
		})
		if err := g.Wait(); err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, detail)
		} else {
			fmt.Fprintln(w, formatProductHuman(detail))
		}
		return exitOK
	})
}

// formatProductHuman formats a product and its reviews for the terminal
func formatProductHuman(d productDetail) string {
	var b strings.Builder
	p := d.Product

	ratings := make([]int, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		ratings = append(ratings, r.Rating)
	}

	fmt.Fprintf(&b, "%s (#%d)\n", p.Name, p.ID)
	fmt.Fprintf(&b, "Price:   %s\n", styles.Money(p.Price))
	fmt.Fprintf(&b, "Stock:   %s\n", widgets.StockText(p.Stock))
	fmt.Fprintf(&b, "Rating:  %s\n", widgets.AverageRating(ratings))
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}

	fmt.Fprintf(&b, "\nReviews (%d)\n", len(d.Reviews))
	if len(d.Reviews) == 0 {
		b.WriteString("Be the first to review this product.")
		return b.String()
	}
	for _, r := range d.Reviews {
		author := r.UserName
		if author == "" {
			author = "Anonymous"
		}
		fmt.Fprintf(&b, "  %s %s\n    %s\n", widgets.Stars(r.Rating), author, r.Comment)
	}
	return strings.TrimRight(b.String(), "\n")
}

// runReview posts a review and returns exit code
func runReview(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		if !sf.Session.IsAuthenticated() {
			return fail(w, storefront.ErrNotSignedIn)
		}
		in, err := validation.Review(reviewRating, reviewComment)
		if err != nil {
			return fail(w, err)
		}
		review, err := sf.API.CreateReview(ctx, id, in)
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, review)
		} else {
			fmt.Fprintf(w, "Thanks for your review of product #%d\n", id)
		}
		return exitOK
	})
}

// newTable returns the table style shared by list commands
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers(headers...)
}
