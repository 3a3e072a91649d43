// Package service implements the conversation and session orchestration
// workflows composing the store, the backend client, and the classifier.
package service

import (
	"log/slog"

	"github.com/xiaot623/edgechat/backend"
	"github.com/xiaot623/edgechat/classifier"
	"github.com/xiaot623/edgechat/config"
	"github.com/xiaot623/edgechat/store"
)

type Service struct {
	store      store.Store
	backend    *backend.Client
	classifier classifier.Classifier
	config     *config.Config
	logger     *slog.Logger
}

// New creates the service. classifier may be nil when intent detection is
// disabled; it is consulted only when the config toggle is on.
func New(st store.Store, bc *backend.Client, cl classifier.Classifier, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      st,
		backend:    bc,
		classifier: cl,
		config:     cfg,
		logger:     logger,
	}
}
