// Package backend provides the HTTP client for the remote inference backend:
// session lifecycle, question answering, and interaction audit.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiaot623/edgechat/domain"
)

// Client talks to the remote backend. No operation retries; callers decide
// whether a failure aborts their workflow.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a backend client. insecureTLS skips certificate
// verification; some deployments sit behind an appliance with a self-signed
// certificate and opt in via config.
func NewClient(baseURL, apiKey string, timeout time.Duration, insecureTLS bool) *Client {
	httpClient := &http.Client{Timeout: timeout}
	if insecureTLS {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type startSessionRequest struct {
	DeviceID string `json:"deviceId"`
}

type startSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type endSessionRequest struct {
	DeviceID  string `json:"deviceId"`
	SessionID string `json:"sessionId"`
}

type askRequest struct {
	DeviceID     string `json:"deviceId"`
	SessionID    string `json:"sessionId"`
	Question     string `json:"question"`
	DataAnalysis bool   `json:"dataAnalysis"`
}

type submitInteractionRequest struct {
	DeviceID  string `json:"deviceId"`
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// post sends a JSON body to path with the shared credential attached.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	return c.httpClient.Do(req)
}

// StartSession opens a session for the device and returns its identifier.
func (c *Client) StartSession(ctx context.Context, deviceID string) (string, error) {
	resp, err := c.post(ctx, "/session/start", startSessionRequest{DeviceID: deviceID})
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProtocolError{Op: "start session", StatusCode: resp.StatusCode}
	}

	var result startSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode start session response: %w", err)
	}
	if result.SessionID == "" {
		return "", &ContractError{Op: "start session", Field: "sessionId"}
	}
	return result.SessionID, nil
}

// EndSession closes a session. Idempotency is the remote's responsibility.
func (c *Client) EndSession(ctx context.Context, deviceID, sessionID string) error {
	resp, err := c.post(ctx, "/session/end", endSessionRequest{DeviceID: deviceID, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProtocolError{Op: "end session", StatusCode: resp.StatusCode}
	}
	return nil
}

// Ask submits a question and returns the backend's answer together with any
// retrieval chunks. The error carries the response body text on failure.
func (c *Client) Ask(ctx context.Context, deviceID, sessionID, question string, dataAnalysis bool) (*domain.AskResult, error) {
	resp, err := c.post(ctx, "/interaction/ask", askRequest{
		DeviceID:     deviceID,
		SessionID:    sessionID,
		Question:     question,
		DataAnalysis: dataAnalysis,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ask: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ProtocolError{Op: "ask", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result domain.AskResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ask response: %w", err)
	}
	return &result, nil
}

// SubmitInteraction records a question/answer pair with the backend's audit
// endpoint.
func (c *Client) SubmitInteraction(ctx context.Context, deviceID, sessionID, question, answer string) error {
	resp, err := c.post(ctx, "/interaction/submit", submitInteractionRequest{
		DeviceID:  deviceID,
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
	})
	if err != nil {
		return fmt.Errorf("failed to submit interaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProtocolError{Op: "submit interaction", StatusCode: resp.StatusCode}
	}
	return nil
}
