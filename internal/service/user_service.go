package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository"
)

// ErrEmptyUserName is returned when a create or update carries no user name.
var ErrEmptyUserName = errors.New("user_name must not be empty")

// UserService describes user lifecycle operations exposed over HTTP.
type UserService interface {
	CreateUser(ctx context.Context, name string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, name string) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyUserName
	}
	return s.users.Create(ctx, name)
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, id int64, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyUserName
	}
	return s.users.Update(ctx, id, name)
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
