package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiaot623/edgechat/domain"
)

const systemPrompt = `You are a gatekeeper for a clinical assistant. Decide whether the user's latest message is about health, symptoms, vital signs, measurements, or the use of the assistant itself. Earlier user messages are given as context; a short follow-up that continues an in-scope topic is in scope.

Reply with a single JSON object and nothing else:
{"valid": true} when the message is in scope, or
{"valid": false, "message": "<a short, polite refusal explaining what you can help with>"} when it is not.`

// OllamaClassifier implements Classifier against an Ollama chat endpoint,
// asking the model for a structured verdict via JSON-mode output.
type OllamaClassifier struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOllamaClassifier creates a classifier using the model served at baseURL.
func NewOllamaClassifier(baseURL, model string, temperature float64, timeout time.Duration) *OllamaClassifier {
	return &OllamaClassifier{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Classify asks the model for a verdict on the message.
func (c *OllamaClassifier) Classify(ctx context.Context, message string, priorUserMessages []string) (domain.Classification, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(message, priorUserMessages)},
		},
		Stream:  false,
		Format:  "json",
		Options: chatOptions{Temperature: c.temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("failed to call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.Classification{}, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return domain.Classification{}, fmt.Errorf("failed to decode classifier response: %w", err)
	}

	var verdict domain.Classification
	if err := json.Unmarshal([]byte(chat.Message.Content), &verdict); err != nil {
		return domain.Classification{}, fmt.Errorf("failed to parse classifier verdict %q: %w", chat.Message.Content, err)
	}
	return verdict, nil
}

// buildPrompt lays out the prior user utterances and the message under review.
func buildPrompt(message string, priorUserMessages []string) string {
	var b strings.Builder
	if len(priorUserMessages) > 0 {
		b.WriteString("Earlier user messages:\n")
		for _, m := range priorUserMessages {
			b.WriteString("- ")
			b.WriteString(m)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Message to judge: ")
	b.WriteString(message)
	return b.String()
}
