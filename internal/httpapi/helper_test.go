package httpapi_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
	"github.com/gabrielrosinski/devops-advanced-project/internal/httpapi"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository"
	"github.com/gabrielrosinski/devops-advanced-project/internal/service"
)

// memRepo is an in-memory UserRepository so handler tests can exercise the
// full handler+service stack without a database.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []domain.User
	err    error // when set, every operation fails with it
}

func (m *memRepo) Init(ctx context.Context) error { return m.err }

func (m *memRepo) Create(ctx context.Context, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	m.nextID++
	now := time.Now().UTC()
	user := domain.User{ID: m.nextID, UserName: name, CreatedAt: now, UpdatedAt: now}
	m.users = append(m.users, user)
	return &user, nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	for _, user := range m.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) List(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	out := make([]domain.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].UserName = name
			m.users[i].UpdatedAt = m.users[i].UpdatedAt.Add(time.Second)
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = nil
	return m.err
}

type fakeCoordinator struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (f *fakeCoordinator) RequestShutdown(delay time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, delay)
}

func (f *fakeCoordinator) requested() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.delays))
	copy(out, f.delays)
	return out
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newRestRouter(repo *memRepo, coordinator httpapi.ShutdownRequester) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := httpapi.NewRestHandler(service.NewUserService(repo), coordinator, testLogger())
	handler.RegisterRoutes(router)
	return router
}

func newWebRouter(repo *memRepo, coordinator httpapi.ShutdownRequester) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := httpapi.NewWebHandler(service.NewUserService(repo), coordinator, testLogger())
	handler.RegisterRoutes(router)
	return router
}
