package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	MessageFailedBodyRequest    = "failed to process body request"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID        = errors.New("failed to parse UUID")
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrNotAuthorized    = errors.New("user not allowed")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenNotFound    = errors.New("token not found")
)

// Bounds carries the numeric limits the composition services validate against.
// Loaded once at startup from configuration and passed in, never read as
// ambient state.
type Bounds struct {
	MinCookingTime int
	MaxCookingTime int
	MinAmount      int
	MaxAmount      int
	MaxUsernameLen int
	MaxNameLen     int
	MaxUnitLen     int
}

func DefaultBounds() Bounds {
	return Bounds{
		MinCookingTime: 1,
		MaxCookingTime: 32000,
		MinAmount:      1,
		MaxAmount:      32000,
		MaxUsernameLen: 150,
		MaxNameLen:     200,
		MaxUnitLen:     200,
	}
}
