package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielrosinski/devops-advanced-project/internal/httpapi"
)

func decodeUser(t *testing.T, body string) httpapi.UserResponse {
	t.Helper()
	var user httpapi.UserResponse
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	return user
}

func TestUserLifecycle(t *testing.T) {
	repo := &memRepo{}
	router := newRestRouter(repo, &fakeCoordinator{})

	// create
	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"user_name":"john_doe"}`))
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusCreated, rw.Code)
	created := decodeUser(t, rw.Body.String())
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "john_doe", created.UserName)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// read back
	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	got := decodeUser(t, rw.Body.String())
	assert.Equal(t, created, got)

	// rename
	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"user_name":"jane_doe"}`))
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	updated := decodeUser(t, rw.Body.String())
	assert.Equal(t, "jane_doe", updated.UserName)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))

	// delete
	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)

	// gone now
	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusNotFound, rw.Code)

	// repeated delete reports not found as well
	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusNotFound, rw.Code)
}

func TestCreateUserEmptyNameRejected(t *testing.T) {
	repo := &memRepo{}
	router := newRestRouter(repo, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"user_name":""}`))
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rw.Code)
	assert.Contains(t, rw.Body.String(), "user_name must not be empty")

	// no row was created
	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"users":[]}`, rw.Body.String())
}

func TestCreateUserMalformedBody(t *testing.T) {
	router := newRestRouter(&memRepo{}, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{not json`))
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Contains(t, rw.Body.String(), "invalid request body")
}

func TestListUsersEmpty(t *testing.T) {
	router := newRestRouter(&memRepo{}, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"users":[]}`, rw.Body.String())
}

func TestGetUserInvalidID(t *testing.T) {
	router := newRestRouter(&memRepo{}, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Contains(t, rw.Body.String(), "invalid user id")
}

func TestHealthzIgnoresStoreFailures(t *testing.T) {
	repo := &memRepo{err: assert.AnError}
	router := newRestRouter(repo, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"rest-api"}`, rw.Body.String())
}

func TestStoreFailureSurfacesAsServerError(t *testing.T) {
	repo := &memRepo{err: assert.AnError}
	router := newRestRouter(repo, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, rw.Body.String(), "error")
}

func TestStopServerRespondsBeforeExit(t *testing.T) {
	coordinator := &fakeCoordinator{}
	router := newRestRouter(&memRepo{}, coordinator)

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stop_server", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "shutting down gracefully")

	delays := coordinator.requested()
	require.Len(t, delays, 1)
	assert.Equal(t, time.Second, delays[0])
}

func TestRouteNotFoundPayload(t *testing.T) {
	router := newRestRouter(&memRepo{}, &fakeCoordinator{})

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	router.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusNotFound, rw.Code)
	assert.Contains(t, rw.Body.String(), "no route matches /no/such/route")
}
