package apiclient

import "strings"

// BaseURLEnvVar is the variable users are pointed at by deployment hints.
const BaseURLEnvVar = "PASTESHARE_API_BASE_URL"

var (
	hintSetBase      = "Set " + BaseURLEnvVar + " to your API host (e.g., https://<service>.onrender.com)."
	hintSeparateHost = "If running UI separate from API, set " + BaseURLEnvVar + "."
)

// HintPolicy decides which deployment hint accompanies a failed request.
//
// ExternalAPIHostSuffixes are static hosting platforms that can never serve the
// API themselves, so a production UI there needs an explicit base URL.
// SameHostSuffixes are platforms where the UI and API are assumed to share a host.
type HintPolicy struct {
	ExternalAPIHostSuffixes []string
	SameHostSuffixes        []string
}

// DefaultHintPolicy returns the built-in hosting topology.
func DefaultHintPolicy() HintPolicy {
	return HintPolicy{
		ExternalAPIHostSuffixes: []string{"vercel.app", "netlify.app", "github.io"},
		SameHostSuffixes:        []string{"onrender.com"},
	}
}

// Hint returns the deployment hint for the given situation, or "".
func (p HintPolicy) Hint(baseConfigured, production bool, hostname string) string {
	if baseConfigured {
		return ""
	}
	if !production {
		return hintSeparateHost
	}
	// Same-host platforms win when a hostname matches both lists.
	if hasAnySuffix(hostname, p.SameHostSuffixes) {
		return ""
	}
	if hasAnySuffix(hostname, p.ExternalAPIHostSuffixes) {
		return hintSetBase
	}
	return ""
}

func hasAnySuffix(host string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}
