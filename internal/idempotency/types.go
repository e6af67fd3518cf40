package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record is the shape persisted under "idempotency:<key>" in the blob backend.
type Record struct {
	Key            string    `json:"idempotency_key"`
	Status         string    `json:"status"`
	OrderID        string    `json:"order_id,omitempty"`
	ResponseBody   string    `json:"response_body,omitempty"`
	ResponseStatus int       `json:"response_status,omitempty"` // e.g., 201
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ExpiresAt      int64     `json:"expires_at"` // epoch seconds
	Note           string    `json:"note,omitempty"`
}

func (r *Record) expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.Unix() >= r.ExpiresAt
}
