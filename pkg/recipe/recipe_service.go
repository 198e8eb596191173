package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/domain"
	"github.com/piqadolf/foodgram-project-react/entities"
	"github.com/piqadolf/foodgram-project-react/internal/utils/storage"
	"github.com/piqadolf/foodgram-project-react/pkg/ingredient"
	"github.com/piqadolf/foodgram-project-react/pkg/relation"
	"github.com/piqadolf/foodgram-project-react/pkg/tag"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.SaveRecipeRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.SaveRecipeRequest, editorID string) (domain.RecipeResponse, error)
		GetRecipeByID(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeListFilter, page, limit int) ([]domain.RecipeResponse, int64, error)
		DeleteRecipe(ctx context.Context, recipeID string, editorID string) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		relationService      relation.RelationService
		s3                   storage.AwsS3
		bounds               domain.Bounds
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	relationService relation.RelationService,
	s3 storage.AwsS3,
	bounds domain.Bounds,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		relationService:      relationService,
		s3:                   s3,
		bounds:               bounds,
	}
}

// validateComposition applies the composition rules in a fixed order: empty
// ingredients, repeated ingredients, empty tags, repeated tags, amount
// bounds, cooking time bounds. Nothing is persisted before it passes.
func (s *recipeService) validateComposition(req domain.SaveRecipeRequest) error {
	if len(req.Ingredients) == 0 {
		return domain.ErrNoIngredients
	}
	seenIngredients := make(map[string]struct{}, len(req.Ingredients))
	for _, entry := range req.Ingredients {
		if _, ok := seenIngredients[entry.ID]; ok {
			return domain.ErrDuplicateIngredients
		}
		seenIngredients[entry.ID] = struct{}{}
	}

	if len(req.Tags) == 0 {
		return domain.ErrNoTags
	}
	seenTags := make(map[string]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		if _, ok := seenTags[id]; ok {
			return domain.ErrDuplicateTags
		}
		seenTags[id] = struct{}{}
	}

	for _, entry := range req.Ingredients {
		if entry.Amount < s.bounds.MinAmount || entry.Amount > s.bounds.MaxAmount {
			return domain.ErrAmountOutOfRange
		}
	}

	if req.CookingTime < s.bounds.MinCookingTime || req.CookingTime > s.bounds.MaxCookingTime {
		return domain.ErrCookingTimeOutOfRange
	}

	return nil
}

// resolveRelations checks every referenced tag and ingredient exists and
// builds the rows to persist.
func (s *recipeService) resolveRelations(ctx context.Context, req domain.SaveRecipeRequest) ([]entities.RecipeIngredient, []entities.Tag, error) {
	ingredientIDs := make([]string, 0, len(req.Ingredients))
	for _, entry := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, entry.ID)
	}
	ingredients, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(req.Ingredients) {
		return nil, nil, domain.ErrIngredientNotFound
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, req.Tags)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(req.Tags) {
		return nil, nil, domain.ErrTagNotFound
	}

	rows := make([]entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, entry := range req.Ingredients {
		ingredientUUID, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		rows = append(rows, entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ingredientUUID,
			Amount:       entry.Amount,
		})
	}

	return rows, tags, nil
}

// decodeImage accepts a data URI ("data:image/png;base64,....") or a bare
// base64 string and returns the raw bytes with their content type.
func decodeImage(data string) ([]byte, string, error) {
	contentType := "image/png"
	payload := data
	if strings.HasPrefix(data, "data:") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) != 2 {
			return nil, "", domain.ErrInvalidImagePayload
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", domain.ErrInvalidImagePayload
	}
	if len(raw) == 0 {
		return nil, "", domain.ErrInvalidImagePayload
	}
	return raw, contentType, nil
}

func (s *recipeService) uploadImage(image string) (string, error) {
	raw, contentType, err := decodeImage(image)
	if err != nil {
		return "", err
	}

	ext := "png"
	if idx := strings.Index(contentType, "/"); idx >= 0 {
		ext = contentType[idx+1:]
	}
	objectName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	objectKey, err := s.s3.UploadObject(objectName, raw, "recipes", contentType, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", domain.ErrInvalidImagePayload
		}
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.SaveRecipeRequest, authorID string) (domain.RecipeResponse, error) {
	if err := s.validateComposition(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	rows, tags, err := s.resolveRelations(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.Image == "" {
		return domain.RecipeResponse{}, domain.ErrInvalidImagePayload
	}
	imageURL, err := s.uploadImage(req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}

	if err := s.recipeRepository.CreateRecipeWithRelations(ctx, recipe, rows, tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrDuplicateIngredients
		}
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.SaveRecipeRequest, editorID string) (domain.RecipeResponse, error) {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	if existing.AuthorID.String() != editorID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.validateComposition(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	rows, tags, err := s.resolveRelations(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = s.uploadImage(req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipe := &entities.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
	}

	if err := s.recipeRepository.UpdateRecipeWithRelations(ctx, recipe, rows, tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrDuplicateIngredients
		}
		return domain.RecipeResponse{}, err
	}

	if imageURL != "" && existing.ImageURL != "" {
		// Old object is unreachable now, removal is best effort.
		_ = s.s3.DeleteObject(s.s3.GetObjectKeyFromLink(existing.ImageURL))
	}

	return s.GetRecipeByID(ctx, recipeID, editorID)
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) domain.RecipeResponse {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, domain.TagResponse{
			ID:    t.ID.String(),
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		item := domain.RecipeIngredientResponse{
			ID:     row.IngredientID.String(),
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	author := domain.UserResponse{ID: recipe.AuthorID.String()}
	if recipe.Author != nil {
		author.Email = recipe.Author.Email
		author.Username = recipe.Author.Username
		author.FirstName = recipe.Author.FirstName
		author.LastName = recipe.Author.LastName
	}
	if viewerID != "" && viewerID != recipe.AuthorID.String() {
		subscribed, err := s.relationService.Exists(
			ctx, relation.KindSubscription, viewerID, recipe.AuthorID.String(),
		)
		if err == nil {
			author.IsSubscribed = subscribed
		}
	}

	isFavorited := false
	isInCart := false
	if viewerID != "" {
		if ok, err := s.relationService.Exists(
			ctx, relation.KindFavorite, viewerID, recipe.ID.String(),
		); err == nil {
			isFavorited = ok
		}
		if ok, err := s.relationService.Exists(
			ctx, relation.KindShoppingCart, viewerID, recipe.ID.String(),
		); err == nil {
			isInCart = ok
		}
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		Name:             recipe.Name,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		Image:            recipe.ImageURL,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		PubDate:          recipe.PubDate,
	}
}

func (s *recipeService) GetRecipeByID(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, viewerID), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeListFilter, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		result = append(result, s.toRecipeResponse(ctx, &recipes[i], filter.ViewerID))
	}
	return result, count, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, editorID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID.String() != editorID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		_ = s.s3.DeleteObject(s.s3.GetObjectKeyFromLink(recipe.ImageURL))
	}
	return nil
}
