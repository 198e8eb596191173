package relation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/domain"
	"github.com/piqadolf/foodgram-project-react/entities"
)

// Kind selects which user relation a toggle operates on.
type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
	KindSubscription Kind = "subscription"
)

type (
	RelationRepository interface {
		Exists(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) (bool, error)
		Create(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error
		Delete(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error
		RecipeExists(ctx context.Context, recipeID uuid.UUID) (bool, error)
		UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// model returns an empty row of the relation's backing table with both key
// columns set.
func model(kind Kind, actorID, targetID uuid.UUID) any {
	switch kind {
	case KindFavorite:
		return &entities.Favorite{ID: uuid.New(), UserID: actorID, RecipeID: targetID}
	case KindShoppingCart:
		return &entities.ShoppingCartItem{ID: uuid.New(), UserID: actorID, RecipeID: targetID}
	case KindSubscription:
		return &entities.Subscription{ID: uuid.New(), UserID: actorID, AuthorID: targetID}
	}
	return nil
}

func (r *relationRepository) query(kind Kind, actorID, targetID uuid.UUID) *gorm.DB {
	switch kind {
	case KindFavorite:
		return r.db.Model(&entities.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", actorID, targetID)
	case KindShoppingCart:
		return r.db.Model(&entities.ShoppingCartItem{}).
			Where("user_id = ? AND recipe_id = ?", actorID, targetID)
	case KindSubscription:
		return r.db.Model(&entities.Subscription{}).
			Where("user_id = ? AND author_id = ?", actorID, targetID)
	}
	return r.db
}

func (r *relationRepository) Exists(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.query(kind, actorID, targetID).WithContext(ctx).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) Create(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error {
	row := model(kind, actorID, targetID)
	err := r.db.WithContext(ctx).Create(row).Error
	// The unique index is the authoritative guard. A racing insert surfaces
	// here as a duplicated key, not as a crash.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrRelationAlreadyExists
	}
	return err
}

func (r *relationRepository) Delete(ctx context.Context, kind Kind, actorID, targetID uuid.UUID) error {
	var tx *gorm.DB
	switch kind {
	case KindFavorite:
		tx = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", actorID, targetID).
			Delete(&entities.Favorite{})
	case KindShoppingCart:
		tx = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", actorID, targetID).
			Delete(&entities.ShoppingCartItem{})
	case KindSubscription:
		tx = r.db.WithContext(ctx).
			Where("user_id = ? AND author_id = ?", actorID, targetID).
			Delete(&entities.Subscription{})
	}
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrRelationNotFound
	}
	return nil
}

func (r *relationRepository) RecipeExists(ctx context.Context, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
