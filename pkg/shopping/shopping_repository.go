package shopping

import (
	"context"

	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/entities"
)

type (
	// CartIngredientRow is one ingredient occurrence from one recipe in the
	// user's cart, before aggregation.
	CartIngredientRow struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}

	ShoppingRepository interface {
		GetCartIngredients(ctx context.Context, userID string) ([]CartIngredientRow, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// GetCartIngredients joins the cart out to every ingredient row of every
// recipe in it, in insertion order. Summation happens in the service.
func (r *shoppingRepository) GetCartIngredients(ctx context.Context, userID string) ([]CartIngredientRow, error) {
	var rows []CartIngredientRow
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Order("shopping_cart_items.created_at, recipe_ingredients.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
