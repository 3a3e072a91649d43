// Package domain defines the core domain models for the chat mediator.
package domain

import "time"

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single immutable conversation entry. DataAnalysis is set only
// on user-authored entries; bot entries leave it nil so it stays off the wire.
type Message struct {
	Role         Role   `json:"role"`
	Content      string `json:"content"`
	Ts           int64  `json:"ts"`
	DataAnalysis *bool  `json:"dataAnalysis,omitempty"`
}

// NewUserMessage builds a user entry stamped with the current time.
func NewUserMessage(content string, dataAnalysis bool) Message {
	return Message{
		Role:         RoleUser,
		Content:      content,
		Ts:           time.Now().UnixMilli(),
		DataAnalysis: &dataAnalysis,
	}
}

// NewBotMessage builds a bot entry stamped with the current time.
func NewBotMessage(content string) Message {
	return Message{
		Role:    RoleBot,
		Content: content,
		Ts:      time.Now().UnixMilli(),
	}
}
