package http

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/middleware"
	"github.com/mrlokans/locallibrary/internal/ui"
)

// entityRoutes is the uniform operation set of an entity controller.
type entityRoutes interface {
	List(c *gin.Context)
	Detail(c *gin.Context)
	CreateForm(c *gin.Context)
	Create(c *gin.Context)
	UpdateForm(c *gin.Context)
	Update(c *gin.Context)
	DeleteForm(c *gin.Context)
	Delete(c *gin.Context)
}

// registerEntity mounts the list, detail, create, update and delete routes
// of one entity under /catalog/<name>, plus the plural list alias.
func registerEntity(catalog *gin.RouterGroup, name, plural string, ctrl entityRoutes) {
	catalog.GET("/"+plural, ctrl.List)

	group := catalog.Group("/" + name)
	group.GET("", ctrl.List)
	group.GET("/create", ctrl.CreateForm)
	group.POST("/create", ctrl.Create)
	group.GET("/:id", ctrl.Detail)
	group.GET("/:id/update", ctrl.UpdateForm)
	group.POST("/:id/update", ctrl.Update)
	group.GET("/:id/delete", ctrl.DeleteForm)
	group.POST("/:id/delete", ctrl.Delete)
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := ui.Templates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Handler())
	}
	router.Use(middleware.SecurityHeaders())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Handler())
	}

	// CSRF must run before sessions; it replaces the request, which would
	// drop the session context otherwise
	if len(cfg.CSRFKey) > 0 {
		router.Use(middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadAndSave())
	}
	router.Use(ErrorHandler(cfg.Logger, cfg.Development))

	router.SetHTMLTemplate(tmpl)
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	deps := Deps{
		Sessions: cfg.Sessions,
		Metrics:  cfg.Metrics,
		Logger:   cfg.Logger,
	}
	if cfg.Audit != nil {
		deps.Audit = cfg.Audit
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Exporter()))
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})

	catalog := router.Group("/catalog")
	catalog.GET("", NewIndexController(cfg.Store, deps).Index)
	registerEntity(catalog, "author", "authors", NewAuthorsController(cfg.Store, cfg.Guard, deps))
	registerEntity(catalog, "genre", "genres", NewGenresController(cfg.Store, cfg.Guard, deps))
	registerEntity(catalog, "book", "books", NewBooksController(cfg.Store, cfg.Guard, deps))
	registerEntity(catalog, "bookinstance", "bookinstances", NewBookInstancesController(cfg.Store, cfg.Guard, deps))

	if cfg.Audit != nil {
		catalog.GET("/audit", NewAuditController(cfg.Audit, deps).List)
	}

	router.NoRoute(NoRoute)

	return router, nil
}
