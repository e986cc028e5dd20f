package graphql

import "context"

// Handler executes an operation and returns the server response.
// A non-nil error is a transport failure; application errors travel in
// Response.Errors.
type Handler func(ctx context.Context, op *Operation) (*Response, error)

// Link wraps the rest of the chain.
type Link func(next Handler) Handler

// Chain composes links around terminal. The first link is outermost:
// Chain(t, a, b) runs a, then b, then t.
func Chain(terminal Handler, links ...Link) Handler {
	h := terminal
	for i := len(links) - 1; i >= 0; i-- {
		h = links[i](h)
	}
	return h
}
