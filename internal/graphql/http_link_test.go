package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPLinkRequest(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotHeader = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"nextSpec":"cypress/login.spec.js"}}`))
	}))
	defer srv.Close()

	h := HTTPLink(srv.URL, srv.Client())
	resp, err := h(context.Background(), &Operation{
		Name:      "NextSpec",
		Query:     "query NextSpec($sessionId: String!) { nextSpec(sessionId: $sessionId) }",
		Variables: map[string]any{"sessionId": "s1"},
		Headers:   http.Header{AuthorizationHeader: {"abc"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "cypress/login.spec.js", resp.Data["nextSpec"])
	assert.Empty(t, resp.Errors)

	assert.Equal(t, "NextSpec", gotBody["operationName"])
	assert.Equal(t, map[string]any{"sessionId": "s1"}, gotBody["variables"])
	assert.Contains(t, gotBody["query"], "nextSpec")
	assert.Equal(t, "abc", gotHeader.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
}

func TestHTTPLinkApplicationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[
			{"message":"a","locations":[{"line":1,"column":2}],"path":["project"]},
			{"message":"b","path":["project","sessions",1]}]}`))
	}))
	defer srv.Close()

	resp, err := HTTPLink(srv.URL, srv.Client())(context.Background(), &Operation{Query: "{ project }"})
	require.NoError(t, err, "application errors are not transport errors")
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "a", resp.Errors[0].Message)
	assert.Equal(t, "1:2", resp.Errors[0].LocationString())
	assert.Equal(t, "project.sessions.1", resp.Errors[1].PathString())
	assert.Nil(t, resp.Data)

	var gqlErrs Errors
	require.ErrorAs(t, resp.Err(), &gqlErrs)
	assert.Len(t, gqlErrs, 2)
}

func TestHTTPLinkStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"unauthorized"}]}`))
	}))
	defer srv.Close()

	resp, err := HTTPLink(srv.URL, srv.Client())(context.Background(), &Operation{Query: "{ project }"})
	assert.Nil(t, resp)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusUnauthorized, netErr.StatusCode)
	assert.Equal(t, "Response not successful: Received status code 401", netErr.Error())
	require.NotNil(t, netErr.Result)
	assert.Equal(t, "unauthorized", netErr.Result.Errors[0].Message)
}

func TestHTTPLinkInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not graphql</html>`))
	}))
	defer srv.Close()

	_, err := HTTPLink(srv.URL, srv.Client())(context.Background(), &Operation{Query: "{ a }"})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 0, netErr.StatusCode)
	assert.Contains(t, netErr.Error(), "decode response")
}

func TestHTTPLinkConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := HTTPLink(url, &http.Client{})(context.Background(), &Operation{Query: "{ a }"})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 0, netErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(netErr))
}

func TestHTTPLinkCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HTTPLink(srv.URL, srv.Client())(ctx, &Operation{Query: "{ a }"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
