package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/config"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/handler"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/directory"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg      *config.Config
	Registry *console.Registry
	Dir      directory.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Handlers
	consoleH := handler.NewConsoleHandler(r.p.Registry)
	bookingH := handler.NewBookingHandler(r.p.Registry)
	sessionH := handler.NewSessionHandler(r.p.Registry)
	directoryH := handler.NewDirectoryHandler(r.p.Dir)

	api := app.Group("/api/v1")

	// 3. Delegate to sub-files
	r.registerConsoleRoutes(api, consoleH)
	r.registerBookingRoutes(api, bookingH)
	r.registerSessionRoutes(api, sessionH)
	r.registerDirectoryRoutes(api, directoryH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New())
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
