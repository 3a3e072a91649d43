package service

import (
	"context"
	"errors"
	"fmt"
)

// StartSession opens a session with the backend and records its identifier in
// the active slot with the configured TTL. If the slot write fails after the
// remote start succeeded, the remote session is leaked; no compensating end
// call is attempted.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	sessionID, err := s.backend.StartSession(ctx, s.config.DeviceID)
	if err != nil {
		return "", err
	}

	if err := s.store.SetActiveSession(ctx, sessionID, s.config.SessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("session started", "session_id", sessionID)
	return sessionID, nil
}

// EndSession closes the session with the backend and clears the active slot.
// The slot is cleared even when the remote call failed: locally, "no active
// session" wins once end has been invoked. The remote error is still returned
// so the caller sees it.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	endErr := s.backend.EndSession(ctx, s.config.DeviceID, sessionID)
	if endErr != nil {
		s.logger.Warn("remote end session failed, clearing local slot anyway",
			"session_id", sessionID, "error", endErr)
	}

	if err := s.store.ClearActiveSession(ctx); err != nil {
		// Keep the remote failure visible alongside the store failure.
		return errors.Join(endErr, fmt.Errorf("failed to clear session: %w", err))
	}
	return endErr
}

// IsSessionActive reports whether candidateID exactly matches the stored
// active session identifier.
func (s *Service) IsSessionActive(ctx context.Context, candidateID string) (bool, error) {
	current, err := s.store.ActiveSession(ctx)
	if err != nil {
		return false, err
	}
	return current != "" && current == candidateID, nil
}
