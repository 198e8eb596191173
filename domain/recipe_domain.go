package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes    = "success get recipes"
	MessageSuccessGetRecipe     = "success get recipe detail"
	MessageSuccessCreateRecipe  = "recipe created successfully"
	MessageSuccessUpdateRecipe  = "recipe updated successfully"
	MessageSuccessDeleteRecipe  = "recipe deleted successfully"
	MessageSuccessGetTags       = "success get tags"
	MessageSuccessGetIngredient = "success get ingredients"

	MessageFailedGetRecipes    = "failed to get recipes"
	MessageFailedGetRecipe     = "failed to get recipe detail"
	MessageFailedCreateRecipe  = "failed to create recipe"
	MessageFailedUpdateRecipe  = "failed to update recipe"
	MessageFailedDeleteRecipe  = "failed to delete recipe"
	MessageFailedGetTags       = "failed to get tags"
	MessageFailedGetIngredient = "failed to get ingredients"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrTagNotFound              = errors.New("tag not found")
	ErrIngredientNotFound       = errors.New("ingredient not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")

	ErrNoIngredients         = errors.New("must contain at least one ingredient")
	ErrDuplicateIngredients  = errors.New("ingredients must not repeat")
	ErrNoTags                = errors.New("must contain at least one tag")
	ErrDuplicateTags         = errors.New("tags must not repeat")
	ErrAmountOutOfRange      = errors.New("ingredient amount out of range")
	ErrCookingTimeOutOfRange = errors.New("cooking time out of range")
	ErrInvalidImagePayload   = errors.New("invalid image payload")
)

type (
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required"`
	}

	SaveRecipeRequest struct {
		Name        string                    `json:"name" validate:"required"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Image       string                    `json:"image"`
		Tags        []string                  `json:"tags" validate:"dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"dive"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		Image            string                     `json:"image"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		PubDate          time.Time                  `json:"pub_date"`
	}

	RecipeMiniResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeListFilter narrows the recipe listing; zero values mean no
	// filter. ViewerID scopes the favorited/in-cart filters.
	RecipeListFilter struct {
		ViewerID           string
		AuthorID           string
		TagSlugs           []string
		OnlyFavorited      bool
		OnlyInShoppingCart bool
	}
)
