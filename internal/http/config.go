package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/middleware"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store CatalogStore
	Guard *integrity.Guard
	Audit interface {
		AuditLogger
		AuditReader
	}
	Database Pinger

	// Cross-cutting collaborators; nil disables each
	Sessions    *middleware.SessionManager
	Metrics     *middleware.Metrics
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger

	// UI paths. An empty TemplatesPath uses the embedded views.
	TemplatesPath string
	StaticPath    string

	// CSRF protection is enabled when CSRFKey is set
	CSRFKey       []byte
	SecureCookies bool

	// Development shows error detail on the error page
	Development bool

	Version string
}
