package models

import "time"

// CommandEvent is a single audit log entry for an operator action or a
// session transition observed against the vendor.
type CommandEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // LOGIN | LOGOUT | SET_TEMP | CONTROL_AC | SCHEDULE_STATUS | SCHEDULE_TIME | SESSION_EXPIRED | VENDOR_ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
