package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/piqadolf/foodgram-project-react/domain"
	"github.com/piqadolf/foodgram-project-react/internal/api/presenters"
	"github.com/piqadolf/foodgram-project-react/pkg/recipe"
	"github.com/piqadolf/foodgram-project-react/pkg/relation"
	"github.com/piqadolf/foodgram-project-react/pkg/shopping"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService   recipe.RecipeService
		relationService relation.RelationService
		shoppingService shopping.ShoppingService
		validator       *validator.Validate
	}
)

func NewRecipeHandler(
	recipeService recipe.RecipeService,
	relationService relation.RelationService,
	shoppingService shopping.ShoppingService,
	validator *validator.Validate,
) RecipeHandler {
	return &recipeHandler{
		recipeService:   recipeService,
		relationService: relationService,
		shoppingService: shoppingService,
		validator:       validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	filter := domain.RecipeListFilter{
		ViewerID:           currentUserID(c),
		AuthorID:           c.Query("author", ""),
		OnlyFavorited:      c.QueryBool("is_favorited", false),
		OnlyInShoppingCart: c.QueryBool("is_in_shopping_cart", false),
	}
	if tags := c.Query("tags", ""); tags != "" {
		filter.TagSlugs = strings.Split(tags, ",")
	}

	recipes, count, err := h.recipeService.GetRecipes(c.Context(), filter, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"results": recipes,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeByID(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipe)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.SaveRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, currentUserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req := new(domain.SaveRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), *req, currentUserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), currentUserID(c)); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) toggleAdd(c *fiber.Ctx, kind relation.Kind, failed, success string) error {
	recipeID := c.Params("id")
	if err := h.relationService.Add(c.Context(), kind, currentUserID(c), recipeID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), failed, err)
	}

	res, err := h.recipeService.GetRecipeByID(c.Context(), recipeID, currentUserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), failed, err)
	}
	return presenters.SuccessResponse(c, domain.RecipeMiniResponse{
		ID:          res.ID,
		Name:        res.Name,
		Image:       res.Image,
		CookingTime: res.CookingTime,
	}, fiber.StatusCreated, success)
}

func (h *recipeHandler) toggleRemove(c *fiber.Ctx, kind relation.Kind, failed, success string) error {
	if err := h.relationService.Remove(c.Context(), kind, currentUserID(c), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), failed, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, success)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	return h.toggleAdd(c, relation.KindFavorite,
		domain.MessageFailedAddFavorite, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.toggleRemove(c, relation.KindFavorite,
		domain.MessageFailedRemoveFavorite, domain.MessageSuccessRemoveFavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	return h.toggleAdd(c, relation.KindShoppingCart,
		domain.MessageFailedAddToCart, domain.MessageSuccessAddToCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	return h.toggleRemove(c, relation.KindShoppingCart,
		domain.MessageFailedRemoveFromCart, domain.MessageSuccessRemoveFromCart)
}

// DownloadShoppingCart streams the aggregated list as a plain-text
// attachment, one "{name}: {measurement_unit} {total_amount}" line per
// ingredient.
func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	items, err := h.shoppingService.BuildShoppingList(c.Context(), currentUserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDownloadCart, err)
	}

	content := h.shoppingService.RenderShoppingList(items)
	c.Set(fiber.HeaderContentType, "text/plain")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, domain.ShoppingListFilename))
	return c.SendString(content)
}
