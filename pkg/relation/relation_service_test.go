package relation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piqadolf/foodgram-project-react/domain"
)

type pair struct {
	kind   Kind
	actor  uuid.UUID
	target uuid.UUID
}

type fakeRelationRepository struct {
	relations map[pair]bool
	recipes   map[uuid.UUID]bool
	users     map[uuid.UUID]bool

	existsCalls int
}

func newFakeRelationRepository() *fakeRelationRepository {
	return &fakeRelationRepository{
		relations: make(map[pair]bool),
		recipes:   make(map[uuid.UUID]bool),
		users:     make(map[uuid.UUID]bool),
	}
}

func (f *fakeRelationRepository) Exists(_ context.Context, kind Kind, actorID, targetID uuid.UUID) (bool, error) {
	f.existsCalls++
	return f.relations[pair{kind, actorID, targetID}], nil
}

func (f *fakeRelationRepository) Create(_ context.Context, kind Kind, actorID, targetID uuid.UUID) error {
	key := pair{kind, actorID, targetID}
	if f.relations[key] {
		// mirrors the unique constraint translated by the store
		return domain.ErrRelationAlreadyExists
	}
	f.relations[key] = true
	return nil
}

func (f *fakeRelationRepository) Delete(_ context.Context, kind Kind, actorID, targetID uuid.UUID) error {
	key := pair{kind, actorID, targetID}
	if !f.relations[key] {
		return domain.ErrRelationNotFound
	}
	delete(f.relations, key)
	return nil
}

func (f *fakeRelationRepository) RecipeExists(_ context.Context, recipeID uuid.UUID) (bool, error) {
	return f.recipes[recipeID], nil
}

func (f *fakeRelationRepository) UserExists(_ context.Context, userID uuid.UUID) (bool, error) {
	return f.users[userID], nil
}

func TestRelationServiceAddTwice(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	userID := uuid.New()
	recipeID := uuid.New()
	repo.users[userID] = true
	repo.recipes[recipeID] = true

	err := service.Add(context.Background(), KindFavorite, userID.String(), recipeID.String())
	require.NoError(t, err)

	err = service.Add(context.Background(), KindFavorite, userID.String(), recipeID.String())
	assert.ErrorIs(t, err, domain.ErrRelationAlreadyExists)
}

func TestRelationServiceRemoveThenAdd(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	userID := uuid.New()
	recipeID := uuid.New()
	repo.recipes[recipeID] = true

	require.NoError(t, service.Add(
		context.Background(), KindShoppingCart, userID.String(), recipeID.String(),
	))
	require.NoError(t, service.Remove(
		context.Background(), KindShoppingCart, userID.String(), recipeID.String(),
	))
	assert.NoError(t, service.Add(
		context.Background(), KindShoppingCart, userID.String(), recipeID.String(),
	))
}

func TestRelationServiceRemoveAbsent(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	userID := uuid.New()
	recipeID := uuid.New()
	repo.recipes[recipeID] = true

	err := service.Remove(context.Background(), KindFavorite, userID.String(), recipeID.String())
	assert.ErrorIs(t, err, domain.ErrRelationNotFound)
}

func TestRelationServiceSelfSubscription(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	userID := uuid.New()
	repo.users[userID] = true

	err := service.Add(context.Background(), KindSubscription, userID.String(), userID.String())
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)
}

func TestRelationServiceTargetNotFound(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	userID := uuid.New()

	err := service.Add(context.Background(), KindFavorite, userID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	err = service.Add(context.Background(), KindSubscription, userID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRelationServiceUnauthenticated(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	err := service.Remove(context.Background(), KindFavorite, "", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Zero(t, repo.existsCalls, "no lookup should happen for anonymous actors")

	err = service.Add(context.Background(), KindShoppingCart, "", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

// Two racing adds: the loser passes the fast-path existence check but the
// store-level constraint still rejects the insert.
func TestRelationServiceConstraintIsAuthoritative(t *testing.T) {
	repo := newFakeRelationRepository()
	service := NewRelationService(repo)

	userID := uuid.New()
	recipeID := uuid.New()
	repo.recipes[recipeID] = true

	// simulate the concurrent winner inserting between check and write
	key := pair{KindFavorite, userID, recipeID}
	repo.relations[key] = true
	repo.existsCalls = 0

	err := repo.Create(context.Background(), KindFavorite, userID, recipeID)
	assert.ErrorIs(t, err, domain.ErrRelationAlreadyExists)

	err = service.Add(context.Background(), KindFavorite, userID.String(), recipeID.String())
	assert.ErrorIs(t, err, domain.ErrRelationAlreadyExists)
}
