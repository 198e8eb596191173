package shopping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piqadolf/foodgram-project-react/domain"
)

type fakeShoppingRepository struct {
	rows map[string][]CartIngredientRow
}

func (f *fakeShoppingRepository) GetCartIngredients(_ context.Context, userID string) ([]CartIngredientRow, error) {
	return f.rows[userID], nil
}

func TestBuildShoppingListAggregates(t *testing.T) {
	userID := uuid.NewString()
	repo := &fakeShoppingRepository{rows: map[string][]CartIngredientRow{
		userID: {
			// recipe one
			{Name: "flour", MeasurementUnit: "g", Amount: 200},
			{Name: "sugar", MeasurementUnit: "g", Amount: 50},
			// recipe two
			{Name: "flour", MeasurementUnit: "g", Amount: 100},
			{Name: "egg", MeasurementUnit: "pcs", Amount: 2},
		},
	}}
	service := NewShoppingService(repo)

	items, err := service.BuildShoppingList(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 300},
		{Name: "sugar", MeasurementUnit: "g", TotalAmount: 50},
		{Name: "egg", MeasurementUnit: "pcs", TotalAmount: 2},
	}, items)
}

func TestBuildShoppingListSameNameDifferentUnit(t *testing.T) {
	userID := uuid.NewString()
	repo := &fakeShoppingRepository{rows: map[string][]CartIngredientRow{
		userID: {
			{Name: "milk", MeasurementUnit: "ml", Amount: 250},
			{Name: "milk", MeasurementUnit: "g", Amount: 30},
		},
	}}
	service := NewShoppingService(repo)

	items, err := service.BuildShoppingList(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 2, "the unit is part of the grouping key")
	assert.Equal(t, 250, items[0].TotalAmount)
	assert.Equal(t, 30, items[1].TotalAmount)
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	repo := &fakeShoppingRepository{rows: map[string][]CartIngredientRow{}}
	service := NewShoppingService(repo)

	items, err := service.BuildShoppingList(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuildShoppingListAnonymous(t *testing.T) {
	service := NewShoppingService(&fakeShoppingRepository{})

	_, err := service.BuildShoppingList(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestRenderShoppingList(t *testing.T) {
	service := NewShoppingService(&fakeShoppingRepository{})

	text := service.RenderShoppingList([]domain.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 300},
		{Name: "egg", MeasurementUnit: "pcs", TotalAmount: 2},
	})
	assert.Equal(t, "flour: g 300\negg: pcs 2", text)

	assert.Equal(t, "", service.RenderShoppingList(nil))
}
