package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testCredential = "hak_tenant_abc123xyz"

// receiver is a fake logs endpoint that records what it was sent.
type receiver struct {
	t        *testing.T
	server   *httptest.Server
	attempts atomic.Int32

	mu       sync.Mutex
	payloads []Payload
	headers  []http.Header
	paths    []string

	// respond decides the answer for the n-th request, counting from 1.
	respond func(n int, w http.ResponseWriter, r *http.Request)
}

func newReceiver(t *testing.T, respond func(n int, w http.ResponseWriter, r *http.Request)) *receiver {
	t.Helper()

	rcv := &receiver{t: t, respond: respond}
	rcv.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(rcv.attempts.Add(1))

		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err == nil {
			rcv.mu.Lock()
			rcv.payloads = append(rcv.payloads, p)
			rcv.headers = append(rcv.headers, r.Header.Clone())
			rcv.paths = append(rcv.paths, r.URL.Path)
			rcv.mu.Unlock()
		}

		rcv.respond(n, w, r)
	}))
	t.Cleanup(rcv.server.Close)

	return rcv
}

func (r *receiver) URL() string {
	return r.server.URL
}

func (r *receiver) Attempts() int {
	return int(r.attempts.Load())
}

func (r *receiver) LastPayload() Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(r.t, r.payloads, "no payload received")
	return r.payloads[len(r.payloads)-1]
}

func (r *receiver) LastHeader() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(r.t, r.headers, "no request received")
	return r.headers[len(r.headers)-1]
}

func accept(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id":"evt_123","resourceType":"log","processedEvents":1,"created":"2025-01-15T10:30:00Z"}`))
}

func acceptAlways(_ int, w http.ResponseWriter, _ *http.Request) {
	accept(w)
}

func failWith(status int, body string) func(int, http.ResponseWriter, *http.Request) {
	return func(_ int, w http.ResponseWriter, _ *http.Request) {
		http.Error(w, body, status)
	}
}

func newTestClient(opts ...Option) *Client {
	return NewClient(append([]Option{WithRetryDelay(time.Millisecond)}, opts...)...)
}

func findAttr(kvs []KeyValue, key string) (AnyValue, bool) {
	for _, kv := range kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return AnyValue{}, false
}

func attrKeys(kvs []KeyValue) []string {
	keys := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		keys = append(keys, kv.Key)
	}
	return keys
}
