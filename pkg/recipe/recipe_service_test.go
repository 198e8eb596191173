package recipe

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/domain"
	"github.com/piqadolf/foodgram-project-react/entities"
	"github.com/piqadolf/foodgram-project-react/pkg/relation"
)

type fakeRecipeRepository struct {
	recipes map[uuid.UUID]*entities.Recipe

	createCalls int
	updateCalls int
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{recipes: make(map[uuid.UUID]*entities.Recipe)}
}

func (f *fakeRecipeRepository) CreateRecipeWithRelations(_ context.Context, recipe *entities.Recipe, ingredients []entities.RecipeIngredient, tags []entities.Tag) error {
	f.createCalls++
	stored := *recipe
	for i := range ingredients {
		ingredients[i].RecipeID = recipe.ID
	}
	stored.Ingredients = ingredients
	stored.Tags = tags
	f.recipes[recipe.ID] = &stored
	return nil
}

func (f *fakeRecipeRepository) UpdateRecipeWithRelations(_ context.Context, recipe *entities.Recipe, ingredients []entities.RecipeIngredient, tags []entities.Tag) error {
	f.updateCalls++
	stored, ok := f.recipes[recipe.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = recipe.Name
	stored.Text = recipe.Text
	stored.CookingTime = recipe.CookingTime
	if recipe.ImageURL != "" {
		stored.ImageURL = recipe.ImageURL
	}
	for i := range ingredients {
		ingredients[i].RecipeID = recipe.ID
	}
	stored.Ingredients = ingredients
	stored.Tags = tags
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	recipeUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	recipe, ok := f.recipes[recipeUUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *recipe
	return &copied, nil
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context, _ domain.RecipeListFilter, _, _ int) ([]entities.Recipe, int64, error) {
	result := make([]entities.Recipe, 0, len(f.recipes))
	for _, recipe := range f.recipes {
		result = append(result, *recipe)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRecipeRepository) GetRecipesByAuthor(_ context.Context, authorID string, _ int) ([]entities.Recipe, int64, error) {
	result := make([]entities.Recipe, 0)
	for _, recipe := range f.recipes {
		if recipe.AuthorID.String() == authorID {
			result = append(result, *recipe)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	recipeUUID, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	delete(f.recipes, recipeUUID)
	return nil
}

type fakeTagRepository struct {
	tags map[string]entities.Tag
}

func (f *fakeTagRepository) GetTags(_ context.Context) ([]entities.Tag, error) {
	result := make([]entities.Tag, 0, len(f.tags))
	for _, t := range f.tags {
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeTagRepository) GetTagByID(_ context.Context, id string) (*entities.Tag, error) {
	t, ok := f.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (f *fakeTagRepository) GetTagsByIDs(_ context.Context, ids []string) ([]entities.Tag, error) {
	result := make([]entities.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

type fakeIngredientRepository struct {
	ingredients map[string]entities.Ingredient
}

func (f *fakeIngredientRepository) GetIngredients(_ context.Context, _ string) ([]entities.Ingredient, error) {
	result := make([]entities.Ingredient, 0, len(f.ingredients))
	for _, ing := range f.ingredients {
		result = append(result, ing)
	}
	return result, nil
}

func (f *fakeIngredientRepository) GetIngredientByID(_ context.Context, id string) (*entities.Ingredient, error) {
	ing, ok := f.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ing, nil
}

func (f *fakeIngredientRepository) GetIngredientsByIDs(_ context.Context, ids []string) ([]entities.Ingredient, error) {
	result := make([]entities.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ing, ok := f.ingredients[id]; ok {
			result = append(result, ing)
		}
	}
	return result, nil
}

type fakeRelationService struct{}

func (f *fakeRelationService) Add(_ context.Context, _ relation.Kind, _, _ string) error {
	return nil
}

func (f *fakeRelationService) Remove(_ context.Context, _ relation.Kind, _, _ string) error {
	return nil
}

func (f *fakeRelationService) Exists(_ context.Context, _ relation.Kind, _, _ string) (bool, error) {
	return false, nil
}

type fakeS3 struct {
	uploads int
	deleted []string
}

func (f *fakeS3) UploadObject(objectName string, _ []byte, folder string, _ string, _ ...string) (string, error) {
	f.uploads++
	return folder + "/" + objectName, nil
}

func (f *fakeS3) DeleteObject(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://storage.test/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://storage.test/")
}

type recipeTestEnv struct {
	service       RecipeService
	repo          *fakeRecipeRepository
	s3            *fakeS3
	tagIDs        []string
	ingredientIDs []string
}

func newRecipeTestEnv(t *testing.T) *recipeTestEnv {
	t.Helper()

	tags := map[string]entities.Tag{}
	tagIDs := make([]string, 0, 2)
	for _, slug := range []string{"breakfast", "dinner"} {
		id := uuid.New()
		tags[id.String()] = entities.Tag{ID: id, Name: slug, Color: "#49B64E", Slug: slug}
		tagIDs = append(tagIDs, id.String())
	}

	ingredients := map[string]entities.Ingredient{}
	ingredientIDs := make([]string, 0, 2)
	for _, name := range []string{"flour", "sugar"} {
		id := uuid.New()
		ingredients[id.String()] = entities.Ingredient{ID: id, Name: name, MeasurementUnit: "g"}
		ingredientIDs = append(ingredientIDs, id.String())
	}

	repo := newFakeRecipeRepository()
	s3 := &fakeS3{}
	service := NewRecipeService(
		repo,
		&fakeTagRepository{tags: tags},
		&fakeIngredientRepository{ingredients: ingredients},
		&fakeRelationService{},
		s3,
		domain.DefaultBounds(),
	)
	return &recipeTestEnv{
		service:       service,
		repo:          repo,
		s3:            s3,
		tagIDs:        tagIDs,
		ingredientIDs: ingredientIDs,
	}
}

func testImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func (env *recipeTestEnv) validRequest() domain.SaveRecipeRequest {
	return domain.SaveRecipeRequest{
		Name:        "pancakes",
		Text:        "mix and fry",
		CookingTime: 20,
		Image:       testImage(),
		Tags:        []string{env.tagIDs[0]},
		Ingredients: []domain.IngredientAmountRequest{
			{ID: env.ingredientIDs[0], Amount: 200},
			{ID: env.ingredientIDs[1], Amount: 50},
		},
	}
}

func TestCreateRecipeValidationOrder(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()

	cases := []struct {
		name    string
		mutate  func(*domain.SaveRecipeRequest)
		wantErr error
	}{
		{
			// no ingredients is reported even when tags are missing too
			name: "no ingredients first",
			mutate: func(req *domain.SaveRecipeRequest) {
				req.Ingredients = nil
				req.Tags = nil
			},
			wantErr: domain.ErrNoIngredients,
		},
		{
			name: "duplicate ingredients before tag checks",
			mutate: func(req *domain.SaveRecipeRequest) {
				req.Ingredients = append(req.Ingredients, req.Ingredients[0])
				req.Tags = nil
			},
			wantErr: domain.ErrDuplicateIngredients,
		},
		{
			name: "no tags",
			mutate: func(req *domain.SaveRecipeRequest) {
				req.Tags = nil
			},
			wantErr: domain.ErrNoTags,
		},
		{
			name: "duplicate tags before amount checks",
			mutate: func(req *domain.SaveRecipeRequest) {
				req.Tags = append(req.Tags, req.Tags[0])
				req.Ingredients[0].Amount = 0
			},
			wantErr: domain.ErrDuplicateTags,
		},
		{
			name: "amount before cooking time",
			mutate: func(req *domain.SaveRecipeRequest) {
				req.Ingredients[0].Amount = 0
				req.CookingTime = 0
			},
			wantErr: domain.ErrAmountOutOfRange,
		},
		{
			name: "cooking time last",
			mutate: func(req *domain.SaveRecipeRequest) {
				req.CookingTime = 0
			},
			wantErr: domain.ErrCookingTimeOutOfRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := env.validRequest()
			tc.mutate(&req)

			_, err := env.service.CreateRecipe(context.Background(), req, authorID)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Zero(t, env.repo.createCalls, "nothing persisted on validation failure")
	assert.Zero(t, env.s3.uploads, "nothing uploaded on validation failure")
}

func TestCreateRecipeBoundsEdges(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()
	bounds := domain.DefaultBounds()

	for _, amount := range []int{bounds.MinAmount, bounds.MaxAmount} {
		req := env.validRequest()
		req.Ingredients[0].Amount = amount
		_, err := env.service.CreateRecipe(context.Background(), req, authorID)
		assert.NoError(t, err, "amount %d is inside the bounds", amount)
	}
	for _, amount := range []int{bounds.MinAmount - 1, bounds.MaxAmount + 1} {
		req := env.validRequest()
		req.Ingredients[0].Amount = amount
		_, err := env.service.CreateRecipe(context.Background(), req, authorID)
		assert.ErrorIs(t, err, domain.ErrAmountOutOfRange, "amount %d", amount)
	}

	for _, minutes := range []int{bounds.MinCookingTime, bounds.MaxCookingTime} {
		req := env.validRequest()
		req.CookingTime = minutes
		_, err := env.service.CreateRecipe(context.Background(), req, authorID)
		assert.NoError(t, err, "cooking time %d is inside the bounds", minutes)
	}
	for _, minutes := range []int{bounds.MinCookingTime - 1, bounds.MaxCookingTime + 1} {
		req := env.validRequest()
		req.CookingTime = minutes
		_, err := env.service.CreateRecipe(context.Background(), req, authorID)
		assert.ErrorIs(t, err, domain.ErrCookingTimeOutOfRange, "cooking time %d", minutes)
	}
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()
	req := env.validRequest()

	resp, err := env.service.CreateRecipe(context.Background(), req, authorID)
	require.NoError(t, err)

	assert.Equal(t, req.Name, resp.Name)
	assert.Equal(t, req.Text, resp.Text)
	assert.Equal(t, req.CookingTime, resp.CookingTime)
	assert.Equal(t, authorID, resp.Author.ID)
	assert.True(t, strings.HasPrefix(resp.Image, "https://storage.test/recipes/"))

	require.Len(t, resp.Tags, 1)
	assert.Equal(t, req.Tags[0], resp.Tags[0].ID)

	gotAmounts := make(map[string]int, len(resp.Ingredients))
	for _, ing := range resp.Ingredients {
		gotAmounts[ing.ID] = ing.Amount
	}
	wantAmounts := make(map[string]int, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		wantAmounts[ing.ID] = ing.Amount
	}
	assert.Equal(t, wantAmounts, gotAmounts)
}

func TestCreateRecipeUnknownRelations(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()

	req := env.validRequest()
	req.Ingredients[0].ID = uuid.NewString()
	_, err := env.service.CreateRecipe(context.Background(), req, authorID)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	req = env.validRequest()
	req.Tags = []string{uuid.NewString()}
	_, err = env.service.CreateRecipe(context.Background(), req, authorID)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	assert.Zero(t, env.repo.createCalls)
}

func TestCreateRecipeInvalidImage(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()

	req := env.validRequest()
	req.Image = ""
	_, err := env.service.CreateRecipe(context.Background(), req, authorID)
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)

	req = env.validRequest()
	req.Image = "data:image/png;base64,@@not-base64@@"
	_, err = env.service.CreateRecipe(context.Background(), req, authorID)
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
}

func TestUpdateRecipeReplacesComposition(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()

	created, err := env.service.CreateRecipe(context.Background(), env.validRequest(), authorID)
	require.NoError(t, err)

	update := env.validRequest()
	update.Name = "crepes"
	update.Tags = []string{env.tagIDs[1]}
	update.Ingredients = []domain.IngredientAmountRequest{
		{ID: env.ingredientIDs[1], Amount: 75},
	}

	updated, err := env.service.UpdateRecipe(context.Background(), created.ID, update, authorID)
	require.NoError(t, err)

	assert.Equal(t, "crepes", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, env.tagIDs[1], updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1, "old ingredient rows are replaced, not merged")
	assert.Equal(t, env.ingredientIDs[1], updated.Ingredients[0].ID)
	assert.Equal(t, 75, updated.Ingredients[0].Amount)
}

func TestUpdateRecipeAuthorization(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()

	created, err := env.service.CreateRecipe(context.Background(), env.validRequest(), authorID)
	require.NoError(t, err)

	_, err = env.service.UpdateRecipe(
		context.Background(), created.ID, env.validRequest(), uuid.NewString(),
	)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	_, err = env.service.UpdateRecipe(
		context.Background(), uuid.NewString(), env.validRequest(), authorID,
	)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	env := newRecipeTestEnv(t)
	authorID := uuid.NewString()

	created, err := env.service.CreateRecipe(context.Background(), env.validRequest(), authorID)
	require.NoError(t, err)

	err = env.service.DeleteRecipe(context.Background(), created.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	require.NoError(t, env.service.DeleteRecipe(context.Background(), created.ID, authorID))
	_, err = env.service.GetRecipeByID(context.Background(), created.ID, authorID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.NotEmpty(t, env.s3.deleted, "stored image is removed with the recipe")
}
