// Package chat defines the interface webhook-driven chat transports implement.
package chat

import (
	"context"
	"net/http"
)

// Frontend is a chat integration that receives updates over a webhook and
// delivers responses back to the platform.
type Frontend interface {
	// Start registers the webhook with the chat platform.
	Start(ctx context.Context) error

	// Run processes queued webhook updates until the context is cancelled.
	Run(ctx context.Context) error

	// Handler returns the HTTP handler the webhook endpoint is served by.
	// The caller mounts it on its own server.
	Handler() http.Handler
}
