// Package http provides the HTTP server the UI shell is mounted on.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/chatbridge/internal/facade"
	v1 "github.com/xiaot623/chatbridge/internal/transport/http/v1"
)

// Options configure the gateway server.
type Options struct {
	// StaticDir holds the UI bundle. Empty disables static serving.
	StaticDir string
	// Metrics, when set, is served on /metrics.
	Metrics http.Handler
	// Quiet drops the request log.
	Quiet bool
}

// NewServer creates and configures the gateway: API routes, metrics and the
// UI bundle.
func NewServer(f *facade.Facade, sessions v1.Sessions, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	if !opts.Quiet {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(f, sessions)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}

	if opts.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  opts.StaticDir,
			HTML5: true,
		}))
	}

	return e
}
