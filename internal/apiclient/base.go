// Package apiclient talks to the paste API on behalf of the UI and the CLI.
//
// It resolves the API base URL, attaches the test-clock header, interprets
// response statuses and turns backend JSON into the UI-facing domain shapes.
package apiclient

import (
	"net/url"
	"strings"
)

// NormalizeBase removes a single trailing slash from a configured base URL.
// An empty base means requests use paths relative to the page origin.
func NormalizeBase(base string) string {
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/")
}

// PageFor describes the frontend served at origin. A trailing slash is
// dropped and an unparsable origin leaves Hostname empty.
func PageFor(origin string) Page {
	origin = NormalizeBase(origin)
	u, err := url.Parse(origin)
	if err != nil {
		return Page{Origin: origin}
	}
	return Page{Origin: origin, Hostname: u.Hostname()}
}
