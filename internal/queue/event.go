// Package queue defines message payloads exchanged over the message broker.
package queue

// authQueueName is the durable queue carrying auth audit events.
const authQueueName = "auth.events"

// Event kinds published by the auth service.
const (
	EventCodeIssued     = "code.issued"
	EventUserRegistered = "user.registered"
	EventUserLogin      = "user.login"
	EventStatusChanged  = "status.changed"
)

// AuthEvent is published after an auth operation succeeds. It carries enough
// information for downstream consumers to log or trigger analytics without
// querying the primary database. No secrets (passwords, codes, tokens) are
// ever placed on the wire.
type AuthEvent struct {
	Kind   string `json:"kind"`
	UserID uint64 `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"` // only for status.changed
	At     string `json:"at"`               // RFC 3339 UTC
}
