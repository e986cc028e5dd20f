package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize bounds the response body read from the server.
const maxResponseSize = 32 << 20

type requestBody struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// HTTPLink returns the terminal handler POSTing operations to endpoint.
// A nil client uses http.DefaultClient. HTTPLink never retries.
func HTTPLink(endpoint string, client *http.Client) Handler {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, op *Operation) (*Response, error) {
		body, err := json.Marshal(requestBody{
			Query:         op.Query,
			Variables:     op.Variables,
			OperationName: op.Name,
		})
		if err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("encode request: %w", err)}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		for k, vs := range op.Headers {
			req.Header[k] = append([]string(nil), vs...)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/graphql-response+json, application/json")

		res, err := client.Do(req)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		defer res.Body.Close()

		data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
		if err != nil {
			return nil, &NetworkError{StatusCode: statusIfFailed(res), Err: fmt.Errorf("read response: %w", err)}
		}

		var out Response
		decodeErr := json.Unmarshal(data, &out)

		if res.StatusCode < 200 || res.StatusCode >= 300 {
			netErr := &NetworkError{
				StatusCode: res.StatusCode,
				Err:        fmt.Errorf("unexpected status %s", res.Status),
			}
			if decodeErr == nil {
				netErr.Result = &out
			}
			return nil, netErr
		}
		if decodeErr != nil {
			return nil, &NetworkError{Err: fmt.Errorf("decode response: %w", decodeErr)}
		}
		return &out, nil
	}
}

func statusIfFailed(res *http.Response) int {
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res.StatusCode
	}
	return 0
}
