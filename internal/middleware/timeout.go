package middleware

import (
	"net/http"
	"sync"
	"time"
)

// SoftTimeout answers 408 if the handler has not written anything within d.
// The handler keeps running; its late writes are silently dropped. The
// request context is deliberately not cancelled, so in-flight store calls
// are left to finish.
func SoftTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &timeoutWriter{w: w}

			timer := time.AfterFunc(d, func() {
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if tw.wrote {
					return
				}
				tw.wrote = true
				tw.timedOut = true
				tw.w.Header().Set("Content-Type", "application/json")
				tw.w.WriteHeader(http.StatusRequestTimeout)
				tw.w.Write([]byte(`{"success":false,"message":"Request timed out"}`))
			})
			defer timer.Stop()

			next.ServeHTTP(tw, r)
		})
	}
}

// timeoutWriter lets exactly one of {handler, timer} produce the response.
type timeoutWriter struct {
	mu       sync.Mutex
	w        http.ResponseWriter
	wrote    bool
	timedOut bool
}

func (t *timeoutWriter) Header() http.Header {
	return t.w.Header()
}

func (t *timeoutWriter) WriteHeader(status int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timedOut {
		return
	}
	t.wrote = true
	t.w.WriteHeader(status)
}

func (t *timeoutWriter) Write(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timedOut {
		return len(b), nil
	}
	t.wrote = true
	return t.w.Write(b)
}
