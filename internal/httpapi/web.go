package httpapi

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/repository"
	"github.com/gabrielrosinski/devops-advanced-project/internal/service"
)

const htmlContentType = "text/html; charset=utf-8"

// WebHandler renders a human-readable view of a user. The element ids in the
// markup are selected by the browser tests and must stay stable.
type WebHandler struct {
	users       service.UserService
	coordinator ShutdownRequester
	logger      *logrus.Logger
}

func NewWebHandler(users service.UserService, coordinator ShutdownRequester, logger *logrus.Logger) *WebHandler {
	return &WebHandler{
		users:       users,
		coordinator: coordinator,
		logger:      logger,
	}
}

func (h *WebHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/users/get_user_data/:id", h.getUserData)
	router.GET("/healthz", healthCheck("web-app"))
	router.GET("/stop_server", stopServer(h.coordinator, h.logger))
	router.NoRoute(routeNotFound)
}

func (h *WebHandler) getUserData(c *gin.Context) {
	idStr := c.Param("id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.renderNotFound(c, idStr)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderNotFound(c, idStr)
			return
		}
		h.logger.Errorf("get user %d: %v", id, err)
		c.Data(http.StatusInternalServerError, htmlContentType,
			[]byte("<h1 id='error'>internal server error</h1>"))
		return
	}

	body := fmt.Sprintf("<h1 id='user'>%s</h1>", html.EscapeString(user.UserName))
	c.Data(http.StatusOK, htmlContentType, []byte(body))
}

func (h *WebHandler) renderNotFound(c *gin.Context, id string) {
	body := fmt.Sprintf("<h1 id='error'>no such user: %s</h1>", html.EscapeString(id))
	c.Data(http.StatusNotFound, htmlContentType, []byte(body))
}
