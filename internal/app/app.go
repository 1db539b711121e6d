package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockinfo/config"
	"github.com/guttosm/stockinfo/docs"
	"github.com/guttosm/stockinfo/internal/api"
	"github.com/guttosm/stockinfo/internal/service"
	"github.com/guttosm/stockinfo/internal/upstream"
)

// Components groups the wired dependencies, for callers that need more than the router
// (e.g. the probe mode reuses the service).
type Components struct {
	Client  *upstream.Client
	Service service.TickerService
}

// NewComponents builds the upstream client and the ticker service from cfg.
func NewComponents(cfg config.Config) (Components, error) {
	if err := config.Validate(cfg); err != nil {
		return Components{}, fmt.Errorf("invalid config: %w", err)
	}
	client := upstream.NewClient(cfg.Upstream, nil)
	return Components{
		Client:  client,
		Service: service.NewTickerService(client, client.BaseURL()),
	}, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the upstream HTTP client and the ticker service.
//   - Creates the HTTP handler layer and the router with every proxied route.
//   - Registers health and readiness probes.
//   - Points the API docs at the configured host.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(cfg config.Config) (*gin.Engine, func(), error) {
	comps, err := NewComponents(cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Docs.Host != "" {
		docs.SwaggerInfo.Host = cfg.Docs.Host
	}

	handler := api.NewHandler(comps.Service)
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins})

	healthHandler := api.NewHealthHandler(comps.Client.Ping)
	healthHandler.Register(router)

	// Release idle upstream connections on shutdown
	cleanup := func() {
		comps.Client.CloseIdleConnections()
	}

	return router, cleanup, nil
}
