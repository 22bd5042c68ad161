// Package pkg provides shared types and constants for pasteshare.
package pkg

// Paths of the paste API consumed by the client.
const (
	// APIBasePath is the root of the backend paste API.
	APIBasePath = "/api"

	// PastesPath creates pastes (POST) and prefixes paste lookups (GET PastesPath/<id>).
	PastesPath = APIBasePath + "/pastes"

	// APIHealthPath is the backend health endpoint.
	APIHealthPath = APIBasePath + "/healthz"
)

// Paths served by the web UI.
const (
	// CreatePagePath renders the create form.
	CreatePagePath = "/"

	// ViewPagePrefix prefixes shareable paste links: ViewPagePrefix + id.
	ViewPagePrefix = "/p/"

	LivenessPath  = "/healthz"
	ReadinessPath = "/readyz"
	MetricsPath   = "/metrics"
)
