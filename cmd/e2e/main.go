// Command e2e drives the user lifecycle end to end against an already-running
// REST service: it clears the table, exercises every endpoint over HTTP, and
// cross-checks each step directly in the database. Exits non-zero on the
// first failed check.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/config"
	"github.com/gabrielrosinski/devops-advanced-project/internal/httpapi"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository/mysql"
)

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
	userRepo := mysql.NewUserRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
	userName := "Test User"

	// The config row, when present, overrides the target URL and test user.
	configRepo := mysql.NewTestConfigRepository(db)
	if testCfg, err := configRepo.Get(ctx); err == nil {
		userName = testCfg.UserName
		baseURL = strings.TrimSuffix(testCfg.APIGatewayURL, "/users")
		logger.Infof("using test config: url %s, user %q", baseURL, userName)
	} else if !errors.Is(err, repository.ErrNotFound) {
		logger.Fatalf("read test config: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	run := runner{logger: logger, client: client, baseURL: baseURL}

	run.waitHealthy()

	if err := userRepo.Clear(ctx); err != nil {
		logger.Fatalf("clear users: %v", err)
	}

	created := run.createUser(userName)
	logger.Infof("created user %d", created.ID)

	got := run.getUser(created.ID, http.StatusOK)
	if got.UserName != userName {
		logger.Fatalf("get user: want name %q, got %q", userName, got.UserName)
	}

	// Cross-check the row in the store directly.
	stored, err := userRepo.GetByID(ctx, created.ID)
	if err != nil {
		logger.Fatalf("user %d missing from database: %v", created.ID, err)
	}
	if stored.UserName != userName {
		logger.Fatalf("database row: want name %q, got %q", userName, stored.UserName)
	}

	if n := run.listUsers(); n != 1 {
		logger.Fatalf("list users: want 1 user, got %d", n)
	}

	updated := run.updateUser(created.ID, userName+" Updated")
	if !updated.UpdatedAt.After(created.CreatedAt) && !updated.UpdatedAt.Equal(created.CreatedAt) {
		logger.Fatalf("update did not refresh updated_at: %v < %v", updated.UpdatedAt, created.CreatedAt)
	}

	run.deleteUser(created.ID, http.StatusOK)
	run.getUser(created.ID, http.StatusNotFound)
	run.deleteUser(created.ID, http.StatusNotFound)

	if n := run.listUsers(); n != 0 {
		logger.Fatalf("list users after delete: want 0 users, got %d", n)
	}

	logger.Info("all end-to-end checks passed")
}

type runner struct {
	logger  *logrus.Logger
	client  *http.Client
	baseURL string
}

func (r *runner) waitHealthy() {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := r.client.Get(r.baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	r.logger.Fatalf("rest api at %s did not become healthy", r.baseURL)
}

func (r *runner) createUser(name string) httpapi.UserResponse {
	body, _ := json.Marshal(map[string]string{"user_name": name})
	resp, err := r.client.Post(r.baseURL+"/users", "application/json", bytes.NewReader(body))
	if err != nil {
		r.logger.Fatalf("create user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		r.logger.Fatalf("create user: want 201, got %d", resp.StatusCode)
	}

	var user httpapi.UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		r.logger.Fatalf("create user: decode response: %v", err)
	}
	return user
}

func (r *runner) getUser(id int64, wantStatus int) httpapi.UserResponse {
	resp, err := r.client.Get(fmt.Sprintf("%s/users/%d", r.baseURL, id))
	if err != nil {
		r.logger.Fatalf("get user %d: %v", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		r.logger.Fatalf("get user %d: want %d, got %d", id, wantStatus, resp.StatusCode)
	}

	var user httpapi.UserResponse
	if wantStatus == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			r.logger.Fatalf("get user %d: decode response: %v", id, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return user
}

func (r *runner) listUsers() int {
	resp, err := r.client.Get(r.baseURL + "/users")
	if err != nil {
		r.logger.Fatalf("list users: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Fatalf("list users: want 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Users []httpapi.UserResponse `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		r.logger.Fatalf("list users: decode response: %v", err)
	}
	return len(payload.Users)
}

func (r *runner) updateUser(id int64, name string) httpapi.UserResponse {
	body, _ := json.Marshal(map[string]string{"user_name": name})
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/users/%d", r.baseURL, id), bytes.NewReader(body))
	if err != nil {
		r.logger.Fatalf("update user %d: %v", id, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Fatalf("update user %d: %v", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Fatalf("update user %d: want 200, got %d", id, resp.StatusCode)
	}

	var user httpapi.UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		r.logger.Fatalf("update user %d: decode response: %v", id, err)
	}
	return user
}

func (r *runner) deleteUser(id int64, wantStatus int) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/users/%d", r.baseURL, id), nil)
	if err != nil {
		r.logger.Fatalf("delete user %d: %v", id, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Fatalf("delete user %d: %v", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != wantStatus {
		r.logger.Fatalf("delete user %d: want %d, got %d", id, wantStatus, resp.StatusCode)
	}
}
