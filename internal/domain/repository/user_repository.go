package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when the store rejects a second record with the same email.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// DeleteByEmail removes the matching record in a single statement and returns it.
	DeleteByEmail(ctx context.Context, email string) (*entity.User, error)
	Ping(ctx context.Context) error
}
