package data

import (
	"net/http"

	"github.com/roguepikachu/pasteshare/internal/apiclient"
	"github.com/roguepikachu/pasteshare/internal/config"
)

// NewAPIClient builds the paste API client described by cfg. The frontend page
// is the configured public origin; callers serving several origins rebind it
// with ForPage.
func NewAPIClient(cfg config.Config, opts ...apiclient.Option) *apiclient.Client {
	env := apiclient.Environment{
		BaseURL:    cfg.APIBaseURL,
		Production: cfg.Production,
		Page:       apiclient.PageFor(cfg.PublicOrigin),
	}
	base := []apiclient.Option{
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		apiclient.WithHintPolicy(apiclient.HintPolicy{
			ExternalAPIHostSuffixes: cfg.ExternalAPIHosts,
			SameHostSuffixes:        cfg.SameHostHosts,
		}),
	}
	return apiclient.New(env, append(base, opts...)...)
}
