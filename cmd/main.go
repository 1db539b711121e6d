package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockinfo/config"
	"github.com/guttosm/stockinfo/internal/api"
	"github.com/guttosm/stockinfo/internal/app"
	"github.com/guttosm/stockinfo/internal/logger"
	"github.com/guttosm/stockinfo/internal/probe"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//   - upstreamTimeout (time.Duration): Bound of one upstream call; the write timeout
//     is kept above it so a slow upstream still gets its fail-open answer written.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string, upstreamTimeout time.Duration) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(upstreamTimeout),
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().
			Str("port", port).
			Str("docs", "http://localhost:"+port+api.DocsPath+"/index.html").
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// writeTimeout returns 0 (none) when upstream calls are unbounded.
func writeTimeout(upstreamTimeout time.Duration) time.Duration {
	if upstreamTimeout <= 0 {
		return 0
	}
	return upstreamTimeout + 15*time.Second
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): Parent context for the shutdown deadline.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (idle upstream connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runProbe calls every route for the given tickers and returns the process exit code.
func runProbe(ctx context.Context, cfg config.Config, tickers string, parallel int) int {
	comps, err := app.NewComponents(cfg)
	if err != nil {
		logger.L().Error().Err(err).Msg("probe init error")
		return 1
	}
	defer comps.Client.CloseIdleConnections()

	report, err := probe.Run(ctx, comps.Service, strings.Split(tickers, ","), parallel)
	if err != nil {
		logger.L().Error().Err(err).Msg("probe failed")
		return 1
	}
	for _, rr := range report.Routes {
		logger.L().Info().Str("route", rr.Route).Int("ok", rr.OK).Int("failed", rr.Failed).Msg("probe route summary")
	}
	if report.Failed > 0 {
		return 2
	}
	return 0
}

// main is the entry point of the stockinfo proxy.
//
// Modes (selected via --mode flag):
//   - api:   Serves the ticker endpoints and the docs at /api-docs.
//   - probe: Calls every upstream route once per ticker and reports failures.
//
// Flags:
//   - --mode:     Execution mode ("api" or "probe"). Default: "api".
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --tickers:  Comma-separated tickers for probe mode. Default: "VHM".
//   - --parallel: Concurrent upstream calls in probe mode (0=auto).
func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	gin.SetMode(gin.ReleaseMode)

	mode := flag.String("mode", "api", "Mode: api or probe")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	tickers := flag.String("tickers", "VHM", "Comma-separated tickers for probe mode")
	parallel := flag.Int("parallel", 0, "Concurrent upstream calls in probe mode (0=auto)")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Str("upstream", cfg.Upstream.BaseURL).Dur("upstream_timeout", cfg.Upstream.Timeout).Msg("starting API server")

		router, cleanup, err := app.InitializeApp(cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, cfg.Upstream.Timeout)
		gracefulShutdown(ctx, server, cleanup)

	case "probe":
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		code := runProbe(sigCtx, cfg, *tickers, *parallel)
		stop()
		os.Exit(code)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
