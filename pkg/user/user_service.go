package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/domain"
	"github.com/piqadolf/foodgram-project-react/entities"
	"github.com/piqadolf/foodgram-project-react/internal/utils/mailing"
	"github.com/piqadolf/foodgram-project-react/pkg/jwt"
	"github.com/piqadolf/foodgram-project-react/pkg/recipe"
	"github.com/piqadolf/foodgram-project-react/pkg/relation"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterUserRequest) (domain.RegisterUserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUser(ctx context.Context, userID string, viewerID string) (domain.UserResponse, error)
		SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error
		GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
		Subscribe(ctx context.Context, userID, authorID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID string) error
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		relationService  relation.RelationService
		jwtService       jwt.JWTService
		bounds           domain.Bounds
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationService relation.RelationService,
	jwtService jwt.JWTService,
	bounds domain.Bounds,
) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		relationService:  relationService,
		jwtService:       jwtService,
		bounds:           bounds,
	}
}

func (s *userService) validateUsername(username string) error {
	if username == "me" {
		return domain.ErrUsernameForbidden
	}
	if len(username) > s.bounds.MaxUsernameLen || !usernamePattern.MatchString(username) {
		return domain.ErrUsernameInvalid
	}
	return nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterUserRequest) (domain.RegisterUserResponse, error) {
	if err := s.validateUsername(req.Username); err != nil {
		return domain.RegisterUserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterUserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterUserResponse{}, err
	}
	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterUserResponse{}, domain.ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterUserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterUserResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RegisterUserResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.RegisterUserResponse{}, err
	}

	// Welcome mail is best effort, registration does not depend on SMTP.
	go func() {
		body := fmt.Sprintf(
			"<p>Hi %s, your account is ready. Share your first recipe!</p>",
			user.FirstName,
		)
		_ = mailing.SendMail(user.Email, "Welcome to Foodgram", body)
	}()

	return domain.RegisterUserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.Password), []byte(req.Password),
	); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token}, nil
}

func (s *userService) toUserResponse(ctx context.Context, user *entities.User, viewerID string) domain.UserResponse {
	res := domain.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewerID != "" && viewerID != res.ID {
		subscribed, err := s.relationService.Exists(
			ctx, relation.KindSubscription, viewerID, res.ID,
		)
		if err == nil {
			res.IsSubscribed = subscribed
		}
	}
	return res
}

func (s *userService) GetUser(ctx context.Context, userID string, viewerID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return s.toUserResponse(ctx, user, viewerID), nil
}

func (s *userService) SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.Password), []byte(req.CurrentPassword),
	); err != nil {
		return domain.ErrPasswordNotMatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hashed))
}

func (s *userService) toSubscriptionResponse(ctx context.Context, author *entities.User, viewerID string, recipesLimit int) domain.SubscriptionResponse {
	res := domain.SubscriptionResponse{
		UserResponse: s.toUserResponse(ctx, author, viewerID),
		Recipes:      []domain.RecipeMiniResponse{},
	}

	recipes, count, err := s.recipeRepository.GetRecipesByAuthor(
		ctx, author.ID.String(), recipesLimit,
	)
	if err != nil {
		return res
	}
	res.RecipesCount = count
	for _, item := range recipes {
		res.Recipes = append(res.Recipes, domain.RecipeMiniResponse{
			ID:          item.ID.String(),
			Name:        item.Name,
			Image:       item.ImageURL,
			CookingTime: item.CookingTime,
		})
	}
	return res
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscribedAuthors(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		result = append(result, s.toSubscriptionResponse(ctx, &authors[i], userID, recipesLimit))
	}
	return result, count, nil
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID string) (domain.SubscriptionResponse, error) {
	if err := s.relationService.Add(
		ctx, relation.KindSubscription, userID, authorID,
	); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	return s.toSubscriptionResponse(ctx, author, userID, 0), nil
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	return s.relationService.Remove(ctx, relation.KindSubscription, userID, authorID)
}
