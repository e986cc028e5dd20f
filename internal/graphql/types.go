// Package graphql implements the client's request pipeline.
//
// An outgoing Operation passes through an ordered chain of links ending in
// a terminal transport handler:
//
//	ErrorLink -> AuthLink -> HTTPLink
//
// ErrorLink is outermost so it observes failures from every stage inside it.
// AuthLink reads the current token on every call, so logging in or out takes
// effect without rebuilding the chain.
package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"splitspecs/internal/common"
)

// OperationType distinguishes queries from mutations.
type OperationType string

const (
	OperationQuery    OperationType = "query"
	OperationMutation OperationType = "mutation"
)

// Operation is one GraphQL request travelling through the link chain.
type Operation struct {
	// ID correlates log records of a single operation.
	ID        string
	Type      OperationType
	Name      string
	Query     string
	Variables map[string]any
	Headers   http.Header
}

// Clone returns a copy of op whose headers may be modified independently.
func (op *Operation) Clone() *Operation {
	c := *op
	c.Headers = op.Headers.Clone()
	if c.Headers == nil {
		c.Headers = make(http.Header)
	}
	return &c
}

// Location is a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Error is one application-level error returned by the server.
type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// LocationString renders locations as "line:col,line:col".
func (e Error) LocationString() string {
	parts := make([]string, len(e.Locations))
	for i, l := range e.Locations {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// PathString renders the field path as "a.b.0.c".
func (e Error) PathString() string {
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		switch v := p.(type) {
		case float64:
			parts[i] = fmt.Sprintf("%d", int64(v))
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ".")
}

// Errors is the full list of application errors of one response.
type Errors []Error

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no graphql errors"
	case 1:
		return "graphql: " + es[0].Message
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return fmt.Sprintf("graphql: %d errors: %s", len(es), strings.Join(msgs, "; "))
}

// Response is the decoded GraphQL response body.
type Response struct {
	Data       map[string]any `json:"data,omitempty"`
	Errors     Errors         `json:"errors,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Err returns the application errors as an error, or nil if there are none.
func (r *Response) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

// Decode re-encodes Data[field] into v.
// A response without data returns common.ErrNoData.
func (r *Response) Decode(field string, v any) error {
	if r == nil || r.Data == nil {
		return common.ErrNoData
	}
	raw, ok := r.Data[field]
	if !ok {
		return fmt.Errorf("response has no field %q", field)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// NetworkError is a transport-level failure: the exchange did not complete
// or the server answered with a non-2xx status.
type NetworkError struct {
	StatusCode int
	Err        error
	// Result holds a decoded body for non-2xx responses, when it was valid GraphQL.
	Result *Response
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Response not successful: Received status code %d", e.StatusCode)
	}
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
