package hass

import "context"

// Caller is the remote-call primitive exposed by Home Assistant. A query
// carries its own "type" discriminator; a service call dispatches an
// action in an integration's domain. Both suspend until the remote side
// answers or the context is done.
type Caller interface {
	// Query sends a typed WebSocket command and decodes the result
	// envelope into result when it is non-nil.
	Query(ctx context.Context, req any, result any) error

	// CallService invokes domain.service with the given payload.
	CallService(ctx context.Context, domain, service string, data any) error
}
