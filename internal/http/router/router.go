// Package router assembles the gin engine of the pasteshare UI server.
package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/pasteshare/internal/http/handler"
	"github.com/roguepikachu/pasteshare/internal/http/middleware"
	"github.com/roguepikachu/pasteshare/internal/http/web"
	"github.com/roguepikachu/pasteshare/pkg"
)

// Deps are the collaborators the router wires into routes.
type Deps struct {
	Pastes  *handler.PasteHandler
	Health  *handler.HealthHandler
	Metrics http.Handler // optional
	// SSL enables redirects to https and HSTS. Leave off behind a TLS
	// terminating proxy.
	SSL bool
}

// NewRouter initializes the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.RequestLogger(pkg.LivenessPath, pkg.ReadinessPath, pkg.MetricsPath),
		middleware.Recovery(),
		secure.New(secureConfig(d.SSL)),
	)
	r.SetHTMLTemplate(web.Templates())

	r.GET(pkg.CreatePagePath, d.Pastes.CreateForm)
	r.POST(pkg.CreatePagePath, d.Pastes.Create)
	r.GET(pkg.ViewPagePrefix+":id", d.Pastes.View)
	r.POST(pkg.ViewPagePrefix+":id", d.Pastes.Unlock)

	r.GET(pkg.LivenessPath, d.Health.Liveness)
	r.GET(pkg.ReadinessPath, d.Health.Readiness)
	if d.Metrics != nil {
		r.GET(pkg.MetricsPath, gin.WrapH(d.Metrics))
	}

	r.NoRoute(noRoute)
	return r
}

// msgNoAPI answers API calls that reach the UI server, e.g. a same-origin
// client with no API proxied in front of it.
const msgNoAPI = "No paste API is served at this address"

// noRoute sends unknown pages to the create page. API paths get a JSON 404
// instead, so a client pointed at this server sees a failure rather than
// following the redirect back into a page that calls the API again.
func noRoute(c *gin.Context) {
	p := c.Request.URL.Path
	if p == pkg.APIBasePath || strings.HasPrefix(p, pkg.APIBasePath+"/") {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNoAPI})
		return
	}
	c.Redirect(http.StatusFound, pkg.CreatePagePath)
}

func secureConfig(ssl bool) secure.Config {
	cfg := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'",
	}
	if ssl {
		cfg.SSLRedirect = true
		cfg.SSLProxyHeaders = map[string]string{"X-Forwarded-Proto": "https"}
		cfg.STSSeconds = 31536000
		cfg.STSIncludeSubdomains = true
	}
	return cfg
}
