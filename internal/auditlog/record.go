package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents a persisted audit event: one row per operation
// attempt, successful or not.
type AuditEntry struct {
	ID         int64     `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Actor      string    `json:"actor" yaml:"actor"`
	Action     string    `json:"action" yaml:"action"`
	ObjectType string    `json:"object_type" yaml:"object_type"`
	ObjectID   string    `json:"object_id,omitempty" yaml:"object_id,omitempty"`
	Outcome    string    `json:"outcome" yaml:"outcome"`
	Detail     string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
}
