package model

import "time"

type AuditEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    string    `json:"actor_id,omitempty"`
	Resource   string    `json:"resource,omitempty"`
	Payload    any       `json:"payload,omitempty"`
}

type AuditQuery struct {
	Action   string
	ActorID  string
	Resource string
	From     string
	To       string
	Page     int
	Limit    int
}

type AuditListData struct {
	Entries []AuditEntry `json:"entries"`
}
