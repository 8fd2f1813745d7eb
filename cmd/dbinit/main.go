// Command dbinit resets the test database: it drops and recreates the users
// table, seeds it with a single user, and writes the config row the external
// test drivers read.
package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/config"
	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository/mysql"
)

const seedUserName = "Test User"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db, err := mysql.Open(mysql.Config{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Name:         cfg.DBName,
		RootUser:     cfg.DBRootUser,
		RootPassword: cfg.DBRootPassword,
	})
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS users"); err != nil {
		logger.Fatalf("drop users table: %v", err)
	}

	userRepo := mysql.NewUserRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	seed, err := userRepo.Create(ctx, seedUserName)
	if err != nil {
		logger.Fatalf("seed user: %v", err)
	}
	logger.Infof("seed user %q created with id %d", seed.UserName, seed.ID)

	configRepo := mysql.NewTestConfigRepository(db)
	if err := configRepo.Init(ctx); err != nil {
		logger.Fatalf("init config repository: %v", err)
	}

	testCfg := domain.TestConfig{
		APIGatewayURL: fmt.Sprintf("http://127.0.0.1:%d/users", cfg.Port),
		BrowserType:   "chrome",
		UserName:      seedUserName,
	}
	if err := configRepo.Put(ctx, testCfg); err != nil {
		logger.Fatalf("write test config: %v", err)
	}

	logger.Info("test database setup complete")
}
