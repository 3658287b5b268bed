package model

import "time"

// DefaultSegment is the audience used when a send names none.
const DefaultSegment = "Subscribed Users"

// PushNotification records a notification accepted by the provider.
type PushNotification struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Segment    string    `json:"segment"`
	TargetURL  *string   `json:"target_url"`
	Recipients int       `json:"recipients"`
	CreatedAt  time.Time `json:"created_at"`
}
