package chat

import "context"

// System relays chat requests to the upstream completion API.
type System interface {
	// Send performs a single-shot exchange, running at most one tool round trip.
	Send(ctx context.Context, req Request) (*Response, error)

	// Stream starts a streamed exchange. Upstream failures before the first
	// frame are returned directly; later failures arrive as a Chunk with Err
	// set, after which the channel is closed. Cancelling ctx stops the relay.
	Stream(ctx context.Context, req Request) (<-chan Chunk, error)

	// Messages returns up to limit transcript entries, oldest first.
	Messages(ctx context.Context, limit int) ([]Entry, error)

	Configured() bool
}
