package backend

import "fmt"

// ProtocolError means the remote returned a non-success HTTP status. Body is
// populated only where the response text helps diagnosis (the ask operation).
type ProtocolError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s failed with status %d, body: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// ContractError means the remote answered successfully but the response was
// missing an expected field, so callers can tell "backend down" apart from
// "backend misbehaving".
type ContractError struct {
	Op    string
	Field string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s response missing %s", e.Op, e.Field)
}
