package user

import (
	"time"

	"github.com/sergey-oreshkin/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(apperror.KindConflict, "email already used")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(apperror.KindValidation, "email is required")
	ErrNameRequired       = apperror.New(apperror.KindValidation, "name is required")
	ErrPasswordTooShort   = apperror.New(apperror.KindValidation, "password is too short")
	ErrNotSelf            = apperror.New(apperror.KindNotAllowed, "users can modify only their own profile")
)

// User represents a registered user.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
