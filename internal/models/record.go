package models

import "time"

// Status is the lifecycle state of a conversation record.
type Status string

// Allowed conversation statuses. The wire values are fixed; the record store
// rejects anything else before touching storage.
const (
	StatusActive    Status = "active"
	StatusPaused    Status = "pause"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Record is one customer conversation as shown on the dashboard. The primary
// key is the phone-shaped messaging address (e.g. "5531...@s.whatsapp.net").
type Record struct {
	Phone            string     `json:"phone"`
	TenantID         string     `json:"tenant_id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Status           Status     `json:"status"`
	Sector           *string    `json:"sector"`
	Active           bool       `json:"active"`
	FirstContact     *time.Time `json:"first_contact,omitempty"`
	LastContact      *time.Time `json:"last_contact,omitempty"`
	TotalMessages    int        `json:"total_messages"`
	TotalTranscripts int        `json:"total_transcripts"`
	LastActivity     time.Time  `json:"last_activity"`
}
