package recipe

import (
	"context"

	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/domain"
	"github.com/piqadolf/foodgram-project-react/entities"
)

type (
	RecipeRepository interface {
		CreateRecipeWithRelations(ctx context.Context, recipe *entities.Recipe, ingredients []entities.RecipeIngredient, tags []entities.Tag) error
		UpdateRecipeWithRelations(ctx context.Context, recipe *entities.Recipe, ingredients []entities.RecipeIngredient, tags []entities.Tag) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeListFilter, page, limit int) ([]entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]entities.Recipe, int64, error)
		DeleteRecipe(ctx context.Context, id string) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipeWithRelations persists the recipe row, its ingredient joins and
// its tag links in one transaction. A failure in any write rolls back all of
// them, so a half-created recipe is never observable.
func (r *recipeRepository) CreateRecipeWithRelations(ctx context.Context, recipe *entities.Recipe, ingredients []entities.RecipeIngredient, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&ingredients).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// UpdateRecipeWithRelations overwrites the recipe wholesale: all existing
// ingredient rows are deleted and reinserted, tag links are replaced. Runs in
// one transaction so readers never see the recipe without ingredients.
func (r *recipeRepository) UpdateRecipeWithRelations(ctx context.Context, recipe *entities.Recipe, ingredients []entities.RecipeIngredient, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}
		if recipe.ImageURL != "" {
			updates["image_url"] = recipe.ImageURL
		}
		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&ingredients).Error; err != nil {
			return err
		}

		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) applyFilter(query *gorm.DB, filter domain.RecipeListFilter) *gorm.DB {
	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct()
	}
	if filter.OnlyFavorited && filter.ViewerID != "" {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", filter.ViewerID)
	}
	if filter.OnlyInShoppingCart && filter.ViewerID != "" {
		query = query.
			Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipes.id").
			Where("shopping_cart_items.user_id = ?", filter.ViewerID)
	}
	return query
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeListFilter, page, limit int) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.applyFilter(
		r.db.WithContext(ctx).Model(&entities.Recipe{}), filter,
	).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.pub_date desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).
			Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}
