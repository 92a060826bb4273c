package domain

import (
	"errors"
	"os"
)

const (
	RoleAdmin = "admin"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedIssueToken     = "failed to issue token"
	MessageSuccessIssueToken    = "token issued successfully"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrInvalidAPIKey  = errors.New("invalid api key")
)
