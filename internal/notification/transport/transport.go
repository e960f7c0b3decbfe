// Package transport abstracts the outbound email channel. Exactly one
// implementation is selected at process start; services never pick a
// transport per call.
package transport

import "context"

// Message is one outbound email with both rendered variants.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a message or reports why it could not. Implementations
// must respect ctx cancellation; they never retry internally.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}
