package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository"
)

const createConfigTable = `
CREATE TABLE IF NOT EXISTS config (
	id INT AUTO_INCREMENT PRIMARY KEY,
	api_gateway_url VARCHAR(255) NOT NULL,
	browser_type VARCHAR(50) NOT NULL,
	user_name VARCHAR(255) NOT NULL
)`

// TestConfigRepository stores the parameters the external test drivers read.
type TestConfigRepository struct {
	db *sql.DB
}

func NewTestConfigRepository(db *sql.DB) *TestConfigRepository {
	return &TestConfigRepository{db: db}
}

func (r *TestConfigRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createConfigTable); err != nil {
		return fmt.Errorf("create config table: %w", err)
	}
	return nil
}

// Put replaces the config row. The table holds a single row with id 1.
func (r *TestConfigRepository) Put(ctx context.Context, cfg domain.TestConfig) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM config`); err != nil {
		return fmt.Errorf("clear config: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO config (id, api_gateway_url, browser_type, user_name)
VALUES (1, ?, ?, ?)`,
		cfg.APIGatewayURL, cfg.BrowserType, cfg.UserName,
	); err != nil {
		return fmt.Errorf("insert config: %w", err)
	}
	return nil
}

func (r *TestConfigRepository) Get(ctx context.Context) (*domain.TestConfig, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT api_gateway_url, browser_type, user_name
FROM config
WHERE id = 1`,
	)

	var cfg domain.TestConfig
	if err := row.Scan(&cfg.APIGatewayURL, &cfg.BrowserType, &cfg.UserName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan config: %w", err)
	}
	return &cfg, nil
}
