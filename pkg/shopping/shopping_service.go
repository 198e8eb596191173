package shopping

import (
	"context"
	"fmt"
	"strings"

	"github.com/piqadolf/foodgram-project-react/domain"
)

type (
	ShoppingService interface {
		BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		RenderShoppingList(items []domain.ShoppingListItem) string
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository) ShoppingService {
	return &shoppingService{shoppingRepository: shoppingRepository}
}

// BuildShoppingList aggregates every ingredient of every recipe in the user's
// cart. Rows are grouped by the (name, measurement unit) pair and their
// amounts summed; entries keep the order the ingredient was first seen in.
// An empty cart yields an empty list.
func (s *shoppingService) BuildShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	rows, err := s.shoppingRepository.GetCartIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct {
		name string
		unit string
	}
	totals := make(map[key]int, len(rows))
	order := make([]key, 0, len(rows))

	for _, row := range rows {
		k := key{name: row.Name, unit: row.MeasurementUnit}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += row.Amount
	}

	items := make([]domain.ShoppingListItem, 0, len(order))
	for _, k := range order {
		items = append(items, domain.ShoppingListItem{
			Name:            k.name,
			MeasurementUnit: k.unit,
			TotalAmount:     totals[k],
		})
	}
	return items, nil
}

// RenderShoppingList formats one line per entry as
// "{name}: {measurement_unit} {total_amount}".
func (s *shoppingService) RenderShoppingList(items []domain.ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(
			"%s: %s %d", item.Name, item.MeasurementUnit, item.TotalAmount,
		))
	}
	return strings.Join(lines, "\n")
}
