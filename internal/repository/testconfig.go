package repository

import (
	"context"

	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
)

// TestConfigRepository manages the single-row config table used by the test
// drivers. Kept separate from UserRepository since the services never use it.
type TestConfigRepository interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, cfg domain.TestConfig) error
	Get(ctx context.Context) (*domain.TestConfig, error)
}
