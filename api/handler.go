// Package api provides HTTP handlers for the chat mediator.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/edgechat/service"
)

// fallbackAnswer is what the widget shows when a workflow fails. Raw error
// internals never reach the transcript or the response.
const fallbackAnswer = "Something went wrong. Please try again later."

// Handler handles HTTP requests.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/session/start", h.StartSession)
	e.POST("/api/session/end", h.EndSession)
	e.GET("/api/session/active", h.SessionActive)

	e.GET("/api/chat/history", h.ChatHistory)
	e.POST("/api/chat/send", h.SendMessage)
	e.DELETE("/api/chat", h.DeleteChat)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
