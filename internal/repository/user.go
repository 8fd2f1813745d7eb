package repository

import (
	"context"
	"errors"

	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
)

// ErrNotFound indicates that no row matches the requested id.
var ErrNotFound = errors.New("user not found")

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, name string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, name string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}
