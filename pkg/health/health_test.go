package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

func TestReadyEndpoint(t *testing.T) {
	h := New()
	h.AddReadinessCheck("always-ok", time.Second, func(context.Context) error { return nil })
	h.Start(context.Background(), time.Minute)
	defer h.Stop()

	// Manual gate still closed.
	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyEndpointFailingCheck(t *testing.T) {
	h := New()
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})
	h.Start(context.Background(), time.Minute)
	defer h.Stop()
	h.SetReady(true)

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestStartRunsChecksBeforeReturning(t *testing.T) {
	var runs atomic.Int32
	h := New()
	h.AddReadinessCheck("counted", time.Second, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	// A one-hour interval means the only execution that can have happened
	// by now is the synchronous first pass.
	h.Start(context.Background(), time.Hour)
	defer h.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestLiveEndpointIgnoresReadinessChecks(t *testing.T) {
	h := New()
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("down")
	})
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(1_000_000))
	h.Start(context.Background(), time.Minute)
	defer h.Stop()

	rec := httptest.NewRecorder()
	h.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
