package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientStartSession(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/start" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Authorization") != "secret" {
			t.Fatalf("missing credential header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sessionId":"abc-123"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	sessionID, err := client.StartSession(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if sessionID != "abc-123" {
		t.Fatalf("unexpected session id: %q", sessionID)
	}
	if gotBody["deviceId"] != "dev-1" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestClientStartSessionProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	_, err := client.StartSession(context.Background(), "dev-1")

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if protoErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", protoErr.StatusCode)
	}
}

func TestClientStartSessionContractError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	_, err := client.StartSession(context.Background(), "dev-1")

	var contractErr *ContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("expected ContractError, got %v", err)
	}
	if contractErr.Field != "sessionId" {
		t.Fatalf("unexpected field: %q", contractErr.Field)
	}
}

func TestClientEndSession(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/end" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body failed: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	if err := client.EndSession(context.Background(), "dev-1", "s1"); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if gotBody["sessionId"] != "s1" || gotBody["deviceId"] != "dev-1" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestClientAsk(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/interaction/ask" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"answer":"all good","chunks":[{"source":"guidelines.pdf","text":"...","score":0.92}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	result, err := client.Ask(context.Background(), "dev-1", "s1", "how am I?", true)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.Answer != "all good" || len(result.Chunks) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotBody["dataAnalysis"] != true || gotBody["question"] != "how am I?" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestClientAskErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "inference pool exhausted")
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	_, err := client.Ask(context.Background(), "dev-1", "s1", "q", false)

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if protoErr.Body != "inference pool exhausted" {
		t.Fatalf("expected body text in error, got %q", protoErr.Body)
	}
}

func TestClientSubmitInteraction(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/interaction/submit" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body failed: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, false)
	if err := client.SubmitInteraction(context.Background(), "dev-1", "s1", "q", "a"); err != nil {
		t.Fatalf("SubmitInteraction failed: %v", err)
	}
	if gotBody["question"] != "q" || gotBody["answer"] != "a" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestClientInsecureTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sessionId":"s1"}`)
	}))
	defer server.Close()

	// The default client must refuse the self-signed certificate.
	strict := NewClient(server.URL, "secret", time.Second, false)
	if _, err := strict.StartSession(context.Background(), "dev-1"); err == nil {
		t.Fatalf("expected TLS verification failure")
	}

	relaxed := NewClient(server.URL, "secret", time.Second, true)
	sessionID, err := relaxed.StartSession(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("StartSession over self-signed TLS failed: %v", err)
	}
	if sessionID != "s1" {
		t.Fatalf("unexpected session id: %q", sessionID)
	}
}
