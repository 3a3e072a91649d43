package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/edgechat/domain"
)

type sendMessageRequest struct {
	Message      string `json:"message"`
	DataAnalysis bool   `json:"dataAnalysis"`
}

// SendMessage runs the message pipeline for the session in the query string.
func (h *Handler) SendMessage(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing sessionId"})
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.svc.HandleMessage(c.Request().Context(), sessionID, req.Message, req.DataAnalysis)
	if errors.Is(err, domain.ErrEmptyMessage) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "empty message"})
	}
	if err != nil {
		log.Printf("ERROR: handle message failed: %v", err)
		return c.JSON(http.StatusOK, domain.ChatResult{Answer: fallbackAnswer})
	}

	return c.JSON(http.StatusOK, result)
}

// ChatHistory returns the session's full log, seeding the welcome entry on a
// first read.
func (h *Handler) ChatHistory(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing sessionId"})
	}

	messages, err := h.svc.Messages(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: read conversation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read conversation"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

// DeleteChat removes the session's log.
func (h *Handler) DeleteChat(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing sessionId"})
	}

	if err := h.svc.DeleteConversation(c.Request().Context(), sessionID); err != nil {
		log.Printf("ERROR: delete conversation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete conversation"})
	}

	return c.NoContent(http.StatusNoContent)
}
