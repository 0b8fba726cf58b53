package chat_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/chat"
	"github.com/JaimeStill/clarus/pkg/logging"
)

// fakeUpstream serves scripted responses in call order and records every
// request it receives.
type fakeUpstream struct {
	mu        sync.Mutex
	responses []http.HandlerFunc
	requests  []map[string]any
	headers   []http.Header
}

func newUpstream(t *testing.T, responses ...http.HandlerFunc) (*fakeUpstream, *httptest.Server) {
	t.Helper()
	u := &fakeUpstream{responses: responses}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		u.mu.Lock()
		n := len(u.requests)
		u.requests = append(u.requests, body)
		u.headers = append(u.headers, r.Header.Clone())
		u.mu.Unlock()

		if n >= len(u.responses) {
			http.Error(w, "unexpected call", http.StatusTeapot)
			return
		}
		u.responses[n](w, r)
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func (u *fakeUpstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *fakeUpstream) request(i int) map[string]any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[i]
}

func (u *fakeUpstream) header(i int) http.Header {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.headers[i]
}

func jsonResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func statusResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func sseResponse(frames ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": OPENROUTER PROCESSING\n\n")
		for _, f := range frames {
			fmt.Fprintf(w, "data: %s\n\n", f)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

// hangingResponse writes frames, then blocks until the client goes away.
func hangingResponse(frames ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range frames {
			fmt.Fprintf(w, "data: %s\n\n", f)
		}
		w.(http.Flusher).Flush()

		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}
}

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newRelay(t *testing.T, baseURL string, configure func(*chat.Config), opts ...chat.Option) chat.System {
	t.Helper()
	cfg := chat.Config{APIKey: "test-key", BaseURL: baseURL}
	if configure != nil {
		configure(&cfg)
	}
	require.NoError(t, cfg.Finalize(nil))

	opts = append([]chat.Option{chat.WithClock(func() time.Time { return fixedNow })}, opts...)
	return chat.New(cfg, logging.Discard(), opts...)
}

// collect drains a stream, failing the test if it does not close in time.
func collect(t *testing.T, stream <-chan chat.Chunk) ([]string, error) {
	t.Helper()
	var frames []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-stream:
			if !ok {
				return frames, nil
			}
			if chunk.Err != nil {
				return frames, chunk.Err
			}
			frames = append(frames, string(chunk.Data))
		case <-timeout:
			t.Fatal("stream did not close")
			return nil, nil
		}
	}
}

const (
	roleFrame   = `{"choices":[{"index":0,"delta":{"role":"assistant"}}]}`
	finishFrame = `{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`
)

func contentFrame(text string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"index": 0, "delta": map[string]string{"content": text}}},
	})
	return string(data)
}
