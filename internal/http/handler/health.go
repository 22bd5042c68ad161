package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/pasteshare/pkg"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// ErrAPIUnhealthy is reported by APIPinger when the paste API health check fails.
var ErrAPIUnhealthy = errors.New("paste api unhealthy")

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// APIPinger turns a boolean health check into a Pinger.
func APIPinger(check func(ctx context.Context) bool) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		if !check(ctx) {
			return ErrAPIUnhealthy
		}
		return nil
	})
}

// HealthHandler provides liveness and readiness probes checking downstream deps.
type HealthHandler struct {
	api         Pinger
	settings    Pinger
	pingTimeout time.Duration
}

// NewHealthHandler constructs a HealthHandler. A nil Pinger skips that check.
func NewHealthHandler(api, settings Pinger) *HealthHandler {
	return &HealthHandler{
		api:         api,
		settings:    settings,
		pingTimeout: 2 * time.Second,
	}
}

type check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Liveness reports that the process is up. Do not check external deps here.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"status": "alive"}, "ok"))
}

// Readiness checks the paste API and the settings store.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	results := make([]check, 0, 2)
	ready := true
	probe := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			ready = false
			results = append(results, check{Name: name, Status: "down", Error: err.Error()})
			return
		}
		results = append(results, check{Name: name, Status: "up"})
	}
	probe("api", h.api)
	probe("settings", h.settings)

	if !ready {
		logger.Warn(c.Request.Context(), "readiness failed: %+v", results)
	}
	resp := pkg.ReadinessResponse(ready, results)
	c.JSON(resp.Code, resp)
}
