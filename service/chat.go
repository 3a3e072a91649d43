package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiaot623/edgechat/domain"
)

// HandleMessage runs the full pipeline for one incoming message: validate,
// read history, append the user entry, classify, ask the backend, append the
// answer. The user entry is appended before classification and before the ask
// call so the transcript records what was asked regardless of what happened
// next.
func (s *Service) HandleMessage(ctx context.Context, sessionID, raw string, dataAnalysis bool) (*domain.ChatResult, error) {
	message := strings.TrimSpace(raw)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}

	history, err := s.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}
	var priorUserMessages []string
	for _, msg := range history {
		if msg.Role == domain.RoleUser {
			priorUserMessages = append(priorUserMessages, msg.Content)
		}
	}

	if err := s.store.AppendMessage(ctx, sessionID, domain.NewUserMessage(message, dataAnalysis)); err != nil {
		return nil, fmt.Errorf("failed to append user message: %w", err)
	}

	verdict := domain.Classification{Valid: true}
	if s.config.IntentDetectionEnabled && s.classifier != nil {
		s.logger.Info("classifying message", "session_id", sessionID)
		verdict, err = s.classifier.Classify(ctx, message, priorUserMessages)
		if err != nil {
			return nil, fmt.Errorf("failed to classify message: %w", err)
		}
	}

	if !verdict.Valid {
		return s.reject(ctx, sessionID, message, verdict.Message)
	}

	answer, err := s.backend.Ask(ctx, s.config.DeviceID, sessionID, message, dataAnalysis)
	if err != nil {
		return nil, err
	}
	if err := s.store.AppendMessage(ctx, sessionID, domain.NewBotMessage(answer.Answer)); err != nil {
		return nil, fmt.Errorf("failed to append bot message: %w", err)
	}

	return &domain.ChatResult{Answer: answer.Answer, Chunks: answer.Chunks}, nil
}

// reject records the classifier's refusal and reports the interaction to the
// audit endpoint. The audit call is best-effort: a failure is logged and must
// not block returning the rejection to the user.
func (s *Service) reject(ctx context.Context, sessionID, message, rejection string) (*domain.ChatResult, error) {
	if err := s.store.AppendMessage(ctx, sessionID, domain.NewBotMessage(rejection)); err != nil {
		return nil, fmt.Errorf("failed to append rejection: %w", err)
	}

	if err := s.backend.SubmitInteraction(ctx, s.config.DeviceID, sessionID, message, rejection); err != nil {
		s.logger.Warn("failed to submit rejected interaction", "session_id", sessionID, "error", err)
	}

	return &domain.ChatResult{Answer: rejection, Rejected: true}, nil
}

// Messages returns the session's full log. A session read for the first time
// is seeded with a persisted welcome entry, so a second read sees the same
// first entry instead of re-seeding. Two concurrent first reads can each
// decide to seed; that race is accepted rather than locked away.
func (s *Service) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	messages, err := s.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		return messages, nil
	}

	welcome := domain.NewBotMessage(s.config.WelcomeMessage)
	if err := s.store.AppendMessage(ctx, sessionID, welcome); err != nil {
		return nil, fmt.Errorf("failed to seed welcome message: %w", err)
	}
	return []domain.Message{welcome}, nil
}

// DeleteConversation removes the session's log. Deletion is decoupled from
// session end so transcripts stay readable after a session expires.
func (s *Service) DeleteConversation(ctx context.Context, sessionID string) error {
	return s.store.DeleteConversation(ctx, sessionID)
}
