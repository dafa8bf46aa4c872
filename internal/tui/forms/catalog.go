// ABOUTME: Catalog forms: product review, admin product editor, delete confirmation
// ABOUTME: Submissions are converted to API payloads before leaving the form

package forms

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

// ReviewMsg carries a validated review for ProductID
type ReviewMsg struct {
	ProductID int64
	Input     client.ReviewInput
}

// ProductMsg carries a validated product. ID is zero for a new product.
type ProductMsg struct {
	ID    int64
	Input client.ProductInput
}

// ConfirmMsg reports the answer to a yes/no question
type ConfirmMsg struct {
	Yes bool
}

func ratingOptions() []huh.Option[string] {
	labels := []string{"1 - Poor", "2 - Fair", "3 - Good", "4 - Very good", "5 - Excellent"}
	opts := make([]huh.Option[string], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l, strconv.Itoa(i+1))
	}
	return opts
}

// Review builds the review form for product p
func Review(p client.Product) *Form {
	rating := "5"
	var comment string
	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Rating").
					Options(ratingOptions()...).
					Value(&rating).
					Validate(validation.Rating),
				huh.NewText().
					Title("Comment").
					Description("At least 10 characters").
					Lines(4).
					Value(&comment).
					Validate(validation.Comment),
			),
		)
	}
	return newForm(fmt.Sprintf("Review %s", p.Name), build, func() (tea.Msg, error) {
		in, err := validation.Review(rating, comment)
		if err != nil {
			return nil, err
		}
		return ReviewMsg{ProductID: p.ID, Input: in}, nil
	})
}

// Product builds the admin product editor. A nil p creates a new product.
func Product(p *client.Product) *Form {
	var (
		f     validation.ProductForm
		id    int64
		title = "Add product"
	)
	if p != nil {
		f = validation.FormFromProduct(*p)
		id = p.ID
		title = fmt.Sprintf("Edit %s", p.Name)
	}

	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Name").CharLimit(100).Value(&f.Name).Validate(validation.ProductName),
				huh.NewText().Title("Description").Lines(4).CharLimit(1000).Value(&f.Description).Validate(validation.ProductDescription),
				huh.NewInput().Title("Price (KSh)").Placeholder("e.g., 1999.99").Value(&f.Price).Validate(validation.Price),
				huh.NewInput().Title("Stock").Placeholder("0").Value(&f.Stock).Validate(validation.Stock),
				huh.NewInput().Title("Image URL").Placeholder("https://... or /images/...").CharLimit(500).Value(&f.ImageURL).Validate(validation.ImageURL),
			),
		)
	}
	return newForm(title, build, func() (tea.Msg, error) {
		in, err := validation.Product(f)
		if err != nil {
			return nil, err
		}
		return ProductMsg{ID: id, Input: in}, nil
	})
}

// Confirm builds a yes/no question that defaults to no
func Confirm(title, question string) *Form {
	var yes bool
	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(question).
					Affirmative("Yes").
					Negative("No").
					Value(&yes),
			),
		)
	}
	return newForm(title, build, func() (tea.Msg, error) {
		return ConfirmMsg{Yes: yes}, nil
	})
}
