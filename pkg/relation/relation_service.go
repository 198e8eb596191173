package relation

import (
	"context"

	"github.com/google/uuid"

	"github.com/piqadolf/foodgram-project-react/domain"
)

type (
	// RelationService toggles the three per-user relations. Add and Remove
	// are strict state transitions: adding an existing pair or removing an
	// absent one is an error, never a silent no-op.
	RelationService interface {
		Add(ctx context.Context, kind Kind, actorID, targetID string) error
		Remove(ctx context.Context, kind Kind, actorID, targetID string) error
		Exists(ctx context.Context, kind Kind, actorID, targetID string) (bool, error)
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

func (s *relationService) parsePair(actorID, targetID string) (uuid.UUID, uuid.UUID, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	return actorUUID, targetUUID, nil
}

// checkTarget verifies the referenced row and applies the kind-specific rule:
// recipes must exist for favorite/cart, authors must exist and differ from the
// subscriber for subscriptions.
func (s *relationService) checkTarget(ctx context.Context, kind Kind, actorUUID, targetUUID uuid.UUID) error {
	switch kind {
	case KindSubscription:
		if actorUUID == targetUUID {
			return domain.ErrSelfSubscription
		}
		exists, err := s.relationRepository.UserExists(ctx, targetUUID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}
	default:
		exists, err := s.relationRepository.RecipeExists(ctx, targetUUID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrRecipeNotFound
		}
	}
	return nil
}

func (s *relationService) Add(ctx context.Context, kind Kind, actorID, targetID string) error {
	if actorID == "" {
		return domain.ErrNotAuthenticated
	}
	actorUUID, targetUUID, err := s.parsePair(actorID, targetID)
	if err != nil {
		return err
	}

	if err := s.checkTarget(ctx, kind, actorUUID, targetUUID); err != nil {
		return err
	}

	// Fast path only; the unique constraint decides under concurrency.
	exists, err := s.relationRepository.Exists(ctx, kind, actorUUID, targetUUID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrRelationAlreadyExists
	}

	return s.relationRepository.Create(ctx, kind, actorUUID, targetUUID)
}

func (s *relationService) Remove(ctx context.Context, kind Kind, actorID, targetID string) error {
	if actorID == "" {
		return domain.ErrNotAuthenticated
	}
	actorUUID, targetUUID, err := s.parsePair(actorID, targetID)
	if err != nil {
		return err
	}

	if err := s.checkTarget(ctx, kind, actorUUID, targetUUID); err != nil {
		return err
	}

	return s.relationRepository.Delete(ctx, kind, actorUUID, targetUUID)
}

func (s *relationService) Exists(ctx context.Context, kind Kind, actorID, targetID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	actorUUID, targetUUID, err := s.parsePair(actorID, targetID)
	if err != nil {
		return false, err
	}
	return s.relationRepository.Exists(ctx, kind, actorUUID, targetUUID)
}
