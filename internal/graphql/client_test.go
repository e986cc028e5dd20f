package graphql

import (
	"context"
	"errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus/hooks/test"

	"splitspecs/internal/cache"
	"splitspecs/internal/common"
	"splitspecs/internal/credential"
	"splitspecs/internal/state"
)

type fakeServer struct {
	*httptest.Server
	mu      sync.Mutex
	headers []string
	calls   atomic.Int32
}

func newFakeServer(t *testing.T, body string, status int) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.headers = append(fs.headers, r.Header.Get("Authorization"))
		fs.mu.Unlock()
		fs.calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) authHeaders() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.headers...)
}

type clientEnv struct {
	client *Client
	store  *credential.MemStore
	flag   *state.Var[bool]
	hook   *test.Hook
}

func newClientEnv(t *testing.T, srv *fakeServer, token string) *clientEnv {
	t.Helper()
	logger, hook := test.NewNullLogger()
	store := credential.NewMemStore()
	if token != "" {
		if err := store.SetItem(credential.TokenKey, token); err != nil {
			t.Fatal(err)
		}
	}
	accessor := credential.NewAccessor(store, logger)
	flag := state.NewLoginFlag(accessor)

	client := NewClient(Options{
		Endpoint:   srv.URL,
		HTTPClient: srv.Client(),
		Tokens:     accessor,
		Cache:      cache.New(cache.Config{TypePolicies: cache.NewIsLoggedInPolicies(flag), Logger: logger}),
		Logger:     logger,
	})
	return &clientEnv{client: client, store: store, flag: flag, hook: hook}
}

func TestClientSendsStoredToken(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"data":{"nextSpec":"a.spec.js"}}`, http.StatusOK)
	env := newClientEnv(t, srv, "abc")

	resp, err := env.client.Query(context.Background(), "{ nextSpec }", nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(resp.Data).To(HaveKeyWithValue("nextSpec", "a.spec.js"))
	g.Expect(srv.authHeaders()).To(Equal([]string{"abc"}))
	g.Expect(env.flag.Get()).To(BeTrue())

	// logout between calls takes effect without rebuilding the client
	g.Expect(env.store.RemoveItem(credential.TokenKey)).To(Succeed())
	_, err = env.client.Query(context.Background(), "{ nextSpec }", nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(srv.authHeaders()).To(Equal([]string{"abc", ""}))
}

func TestClientWithoutToken(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"data":{"nextSpec":"a.spec.js"}}`, http.StatusOK)
	env := newClientEnv(t, srv, "")

	_, err := env.client.Query(context.Background(), "{ nextSpec }", nil)
	g.Expect(err).NotTo(HaveOccurred(), "missing credential is not an error")
	g.Expect(srv.authHeaders()).To(Equal([]string{""}))
	g.Expect(env.flag.Get()).To(BeFalse())
	g.Expect(env.hook.AllEntries()).To(BeEmpty())
}

func TestClientCachesResultsAndOverridesLoginFlag(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"data":{"isLoggedIn":true,"project":{"__typename":"Project","id":"p1","projectName":"web"}}}`, http.StatusOK)
	env := newClientEnv(t, srv, "abc")

	_, err := env.client.Query(context.Background(), "{ isLoggedIn project(name: \"web\") { id projectName } }", nil)
	g.Expect(err).NotTo(HaveOccurred())

	name, ok := env.client.Cache().ReadField("Project:p1", "projectName")
	g.Expect(ok).To(BeTrue())
	g.Expect(name).To(Equal("web"))

	env.flag.Set(false)
	v, ok := env.client.ReadQueryField(cache.IsLoggedInField)
	g.Expect(ok).To(BeTrue())
	g.Expect(v).To(Equal(false), "flag wins over the server-supplied true")
}

func TestClientTransportFailure(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `oops`, http.StatusInternalServerError)
	env := newClientEnv(t, srv, "abc")

	resp, err := env.client.Query(context.Background(), "{ nextSpec }", nil)
	g.Expect(resp).To(BeNil())
	var netErr *NetworkError
	g.Expect(err).To(BeAssignableToTypeOf(netErr))
	g.Expect(err.(*NetworkError).StatusCode).To(Equal(http.StatusInternalServerError))
	g.Expect(env.hook.AllEntries()).To(HaveLen(1))
	g.Expect(env.hook.LastEntry().Message).To(Equal("[Network error]: Response not successful: Received status code 500"))
}

func TestClientFailedStatusWithGraphQLErrors(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"errors":[{"message":"unauthorized","path":["project"]},{"message":"second"}]}`, http.StatusUnauthorized)
	env := newClientEnv(t, srv, "expired")

	resp, err := env.client.Query(context.Background(), "{ project }", nil)
	g.Expect(resp).To(BeNil())
	var netErr *NetworkError
	g.Expect(errors.As(err, &netErr)).To(BeTrue())
	g.Expect(netErr.StatusCode).To(Equal(http.StatusUnauthorized))
	g.Expect(netErr.Result.Errors).To(HaveLen(2))

	entries := env.hook.AllEntries()
	g.Expect(entries).To(HaveLen(3))
	g.Expect(entries[0].Message).To(Equal("[GraphQL error]: Message: unauthorized, Location: , Path: project"))
	g.Expect(entries[1].Message).To(Equal("[GraphQL error]: Message: second, Location: , Path: "))
	g.Expect(entries[2].Message).To(Equal("[Network error]: Response not successful: Received status code 401"))
}

func TestClientApplicationErrors(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"data":{"nextSpec":null},"errors":[
		{"message":"session not found","locations":[{"line":1,"column":3}],"path":["nextSpec"]},
		{"message":"backlog empty","locations":[{"line":1,"column":3}],"path":["nextSpec"]}]}`, http.StatusOK)
	env := newClientEnv(t, srv, "abc")

	resp, err := env.client.Query(context.Background(), "{ nextSpec }", nil, WithOperationName("NextSpec"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(resp.Errors).To(HaveLen(2))
	g.Expect(resp.Err()).To(MatchError(ContainSubstring("session not found")))

	entries := env.hook.AllEntries()
	g.Expect(entries).To(HaveLen(2))
	g.Expect(entries[0].Message).To(Equal("[GraphQL error]: Message: session not found, Location: 1:3, Path: nextSpec"))
	g.Expect(entries[1].Data).To(HaveKeyWithValue("operation_name", "NextSpec"))

	_, cached := env.client.Cache().ReadField(cache.RootQuery, "nextSpec")
	g.Expect(cached).To(BeFalse(), "results with errors are not cached")
}

func TestClientMutationWritesMutationRoot(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"data":{"addSession":{"sessionId":"s1","projectName":"web"}}}`, http.StatusOK)
	env := newClientEnv(t, srv, "abc")

	resp, err := env.client.Mutate(context.Background(), "mutation { addSession { sessionId projectName } }", nil)
	g.Expect(err).NotTo(HaveOccurred())

	var info struct {
		SessionID string `json:"sessionId"`
	}
	g.Expect(resp.Decode("addSession", &info)).To(Succeed())
	g.Expect(info.SessionID).To(Equal("s1"))

	_, ok := env.client.Cache().ReadField(cache.RootMutation, "addSession")
	g.Expect(ok).To(BeTrue())
	_, ok = env.client.Cache().ReadField(cache.RootQuery, "addSession")
	g.Expect(ok).To(BeFalse())
}

func TestClientConcurrentOperations(t *testing.T) {
	g := NewWithT(t)
	srv := newFakeServer(t, `{"data":{"ok":true}}`, http.StatusOK)
	env := newClientEnv(t, srv, "abc")

	const n = 8
	for range n {
		go func() {
			_, _ = env.client.Query(context.Background(), "{ ok }", nil)
		}()
	}

	g.Eventually(func() int32 {
		return srv.calls.Load()
	}).WithTimeout(2 * time.Second).WithPolling(10 * time.Millisecond).Should(Equal(int32(n)))
	g.Eventually(func() bool {
		v, ok := env.client.ReadQueryField("ok")
		return ok && v == true
	}).WithTimeout(time.Second).Should(BeTrue())
}

func TestResponseDecodeMissingField(t *testing.T) {
	g := NewWithT(t)
	resp := &Response{Data: map[string]any{}}
	var out any
	g.Expect(resp.Decode("missing", &out)).To(MatchError(ContainSubstring("missing")))
	g.Expect((*Response)(nil).Err()).To(BeNil())
	g.Expect((&Response{}).Decode("any", &out)).To(MatchError(common.ErrNoData))

	raw, err := json.Marshal(Errors{{Message: "x"}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(raw)).To(Equal(`[{"message":"x"}]`))
}
