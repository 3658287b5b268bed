package adapter

import (
	"context"
	"encoding/json"
)

// PushMessage is a provider-agnostic notification request.
type PushMessage struct {
	Title     string
	Body      string
	Segment   string // named audience; "Subscribed Users" reaches everyone subscribed
	TargetURL string // optional deep link delivered as data.targetUrl
}

// PushResult is what the provider reports after accepting a send.
type PushResult struct {
	ID         string
	Recipients int
}

// NotificationProvider is the hex port for push delivery providers.
type NotificationProvider interface {
	Name() string
	Send(ctx context.Context, msg PushMessage) (PushResult, error)
	// Get returns the provider's delivery metadata for a notification, verbatim.
	Get(ctx context.Context, id string) (json.RawMessage, error)
}
