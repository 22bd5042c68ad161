package apiclient

import (
	"context"
	"net/http"

	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// HeaderTestNow carries the simulated server time in milliseconds.
// It is also the settings key the override is stored under.
const HeaderTestNow = "x-test-now-ms"

// TestClockSource reads the stored test-clock override.
// An empty value with a nil error means no override is set.
type TestClockSource interface {
	TestNowMS(ctx context.Context) (string, error)
}

// BuildHeaders returns the headers sent with every API request. The test-clock
// header is only present when src yields a non-empty value.
func BuildHeaders(ctx context.Context, src TestClockSource) http.Header {
	h := make(http.Header, 3)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	if src == nil {
		return h
	}
	v, err := src.TestNowMS(ctx)
	if err != nil {
		logger.WithField(ctx, "error", err.Error()).Warn("test clock override unavailable, sending request without it")
		return h
	}
	if v != "" {
		h.Set(HeaderTestNow, v)
	}
	return h
}
