// Package health provides liveness and readiness probe endpoints backed by
// periodically executed checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

type probeKind int

const (
	liveness probeKind = iota
	readiness
)

type check struct {
	name    string
	kind    probeKind
	timeout time.Duration
	fn      CheckFunc

	mu      sync.Mutex
	lastErr error
}

func (c *check) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *check) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Health runs registered checks on an interval and serves their combined
// status on probe endpoints. Register all checks before calling Start.
type Health struct {
	ready  atomic.Bool
	checks []*check
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Health service in the not-ready state.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check that gates the liveness endpoint.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.checks = append(h.checks, &check{name: name, kind: liveness, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that gates the readiness endpoint.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.checks = append(h.checks, &check{name: name, kind: readiness, timeout: timeout, fn: fn})
}

// Start runs every check once synchronously, then re-runs them on the given
// interval until Stop is called or ctx is cancelled. The probe endpoints
// never report a state no check has produced: by the time Start returns,
// every check has executed at least once.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})

	for _, c := range h.checks {
		c.run(ctx)
	}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, c := range h.checks {
					c.run(ctx)
				}
			}
		}
	}()
}

// Stop halts the background check loop.
func (h *Health) Stop() {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
}

// SetReady flips the manual readiness gate. Readiness requires both the
// gate and every readiness check to pass; flipping it to false is how
// graceful shutdown drains traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the manual readiness gate.
func (h *Health) IsReady() bool {
	return h.ready.Load()
}

// LiveEndpoint is the HTTP handler for the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, h.collect(liveness))
}

// ReadyEndpoint is the HTTP handler for the readiness probe.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.collect(readiness)
	if !h.ready.Load() {
		failures["service"] = "not ready"
	}
	writeStatus(w, failures)
}

func (h *Health) collect(kind probeKind) map[string]string {
	failures := make(map[string]string)
	for _, c := range h.checks {
		if c.kind != kind {
			continue
		}
		if err := c.failure(); err != nil {
			failures[c.name] = err.Error()
		}
	}
	return failures
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	if len(failures) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   statusText(len(failures) == 0),
		"failures": failures,
	})
}

func statusText(ok bool) string {
	if ok {
		return "up"
	}
	return "down"
}
