package domain

import "time"

// MaxPerStore caps the notification list at the 50 most recent
// entries; the oldest are silently evicted on overflow.
const MaxPerStore = 50

// Notification is one entry in the per-recipient feed. Entries are
// never deleted individually; the only mutation after creation is
// marking them read.
type Notification struct {
	ID              string    `json:"id"`
	RecipientID     string    `json:"recipient_id"`
	RecipientRole   string    `json:"recipient_role"`
	Message         string    `json:"message"`
	Timestamp       time.Time `json:"timestamp"`
	Read            bool      `json:"read"`
	CustomerName    string    `json:"customer_name,omitempty"`
	WorkerName      string    `json:"worker_name,omitempty"`
	ServiceCategory string    `json:"service_category,omitempty"`
}

// CreateNotificationRequest carries every field except the ones the
// service assigns at creation (id, timestamp, read).
type CreateNotificationRequest struct {
	RecipientID     string `json:"recipient_id"`
	RecipientRole   string `json:"recipient_role"`
	Message         string `json:"message"`
	CustomerName    string `json:"customer_name,omitempty"`
	WorkerName      string `json:"worker_name,omitempty"`
	ServiceCategory string `json:"service_category,omitempty"`
}
