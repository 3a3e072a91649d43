package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

type endSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// StartSession opens a backend session and returns its identifier.
func (h *Handler) StartSession(c echo.Context) error {
	sessionID, err := h.svc.StartSession(c.Request().Context())
	if err != nil {
		log.Printf("ERROR: start session failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to start session"})
	}

	return c.JSON(http.StatusOK, map[string]string{"sessionId": sessionID})
}

// EndSession closes the session. The local active slot is cleared even when
// the remote end call fails, so the widget always ends up without a session.
func (h *Handler) EndSession(c echo.Context) error {
	var req endSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.svc.EndSession(c.Request().Context(), req.SessionID); err != nil {
		log.Printf("WARN: end session failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to end session"})
	}

	return c.NoContent(http.StatusNoContent)
}

// SessionActive reports whether the given identifier is the active session.
func (h *Handler) SessionActive(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")

	active, err := h.svc.IsSessionActive(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: session lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to check session"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"active": active})
}
