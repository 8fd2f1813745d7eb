package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/domain"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository"
	"github.com/gabrielrosinski/devops-advanced-project/internal/service"
)

// ShutdownRequester schedules process termination out-of-band so the response
// to the triggering request can be flushed first.
type ShutdownRequester interface {
	RequestShutdown(delay time.Duration)
}

// How long a /stop_server response has to reach the client before the process
// goes away.
const stopServerDelay = time.Second

// UserResponse is the wire representation of a user on both services.
type UserResponse struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// writeError translates service and repository errors into HTTP statuses.
// Store failures surface as 500 with the message preserved.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyUserName):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// healthCheck reports process liveness only; it never touches the database.
func healthCheck(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	}
}

func stopServer(coordinator ShutdownRequester, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("shutdown request received")
		coordinator.RequestShutdown(stopServerDelay)
		c.JSON(http.StatusOK, gin.H{"message": "Server shutting down gracefully"})
	}
}

// routeNotFound replaces the framework default so an unmatched route is
// distinguishable from a missing user.
func routeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "no route matches " + c.Request.URL.Path})
}
