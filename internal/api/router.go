package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockinfo/docs"
	"github.com/guttosm/stockinfo/internal/middleware"
	"github.com/guttosm/stockinfo/internal/routes"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DocsPath is where the interactive API documentation is mounted.
const DocsPath = "/api-docs"

// RouterOptions tunes cross-cutting router behavior.
type RouterOptions struct {
	AllowedOrigins []string // CORS origins; empty allows any
}

// NewRouter creates a Gin engine with every proxied route registered.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS).
//   - Registers one GET handler per entry of routes.Table().
//   - Mounts the API docs (/api-docs/index.html, /api-docs/doc.json).
//
// No request timeout is installed here: the upstream client owns the time bound,
// and a timed-out call is answered like any other upstream failure.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	// Match on the escaped path so a ticker holding %2F stays one segment.
	router.UseRawPath = true

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.CORS(opts.AllowedOrigins),
	)
	router.NoRoute(middleware.NotFound)

	// ─── API docs ─────────────────────────────────
	docsHandler := ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docs.InstanceName))
	router.GET(DocsPath+"/*any", func(c *gin.Context) {
		if p := c.Param("any"); p == "" || p == "/" {
			c.Redirect(http.StatusFound, DocsPath+"/index.html")
			return
		}
		docsHandler(c)
	})

	// ─── Ticker routes ────────────────────────────
	for _, route := range routes.Table() {
		router.GET(route.Path, handler.Proxy(route))
	}

	return router
}
