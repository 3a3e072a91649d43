// Package classifier provides the domain-relevance gate applied to incoming
// messages before they are forwarded to the inference backend.
package classifier

import (
	"context"

	"github.com/xiaot623/edgechat/domain"
)

// Classifier judges whether a message is in scope for the assistant.
// priorUserMessages is the ordered list of earlier user utterances in the
// session, provided as context. A returned error means the classification
// itself failed, which is distinct from a valid=false verdict.
type Classifier interface {
	Classify(ctx context.Context, message string, priorUserMessages []string) (domain.Classification, error)
}
