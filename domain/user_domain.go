package domain

import (
	"errors"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetMe            = "success get current user"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessSetPassword      = "password changed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedSetPassword      = "failed to change password"
	MessageFailedGetSubscriptions = "failed to get subscriptions"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"

	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrUsernameForbidden     = errors.New("username \"me\" is not allowed")
	ErrUsernameInvalid       = errors.New("username contains invalid characters")
	ErrCredentialsInvalid    = errors.New("invalid email or password")
	ErrPasswordNotMatch      = errors.New("current password does not match")
)

type (
	RegisterUserRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username" validate:"required"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
	}

	RegisterUserResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionResponse is an author card in the subscriptions list: the
	// author's profile plus a short window of their recipes.
	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeMiniResponse `json:"recipes"`
		RecipesCount int64                `json:"recipes_count"`
	}
)
