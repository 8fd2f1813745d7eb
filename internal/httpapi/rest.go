package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/service"
)

// RestHandler wires the user resource routes to the user service.
type RestHandler struct {
	users       service.UserService
	coordinator ShutdownRequester
	logger      *logrus.Logger
}

func NewRestHandler(users service.UserService, coordinator ShutdownRequester, logger *logrus.Logger) *RestHandler {
	return &RestHandler{
		users:       users,
		coordinator: coordinator,
		logger:      logger,
	}
}

func (h *RestHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/users", h.createUser)
	router.GET("/users", h.listUsers)
	router.GET("/users/:id", h.getUser)
	router.PUT("/users/:id", h.updateUser)
	router.DELETE("/users/:id", h.deleteUser)
	router.GET("/healthz", healthCheck("rest-api"))
	router.GET("/stop_server", stopServer(h.coordinator, h.logger))
	router.NoRoute(routeNotFound)
}

type userRequest struct {
	UserName string `json:"user_name"`
}

func (h *RestHandler) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.UserName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *RestHandler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h *RestHandler) getUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *RestHandler) updateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, req.UserName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *RestHandler) deleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("user %d deleted", id)})
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}
