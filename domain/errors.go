package domain

import "errors"

// ErrEmptyMessage is returned when an incoming message is empty after
// trimming. The workflow performs no side effects before this check.
var ErrEmptyMessage = errors.New("empty message")
