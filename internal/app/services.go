package app

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/config"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/directory"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/events"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideDirectoryService,
		ProvidePublisher,
		ProvideConsoleRegistry,
	),
)

func ProvideDirectoryService(api upstream.Client, rdb *redis.Client, cfg *config.Config) directory.Service {
	ttl := time.Duration(cfg.Console.DirectoryCacheTTLSec) * time.Second
	return directory.New(api, rdb, ttl)
}

func ProvidePublisher(nc *nats.Conn) events.Publisher {
	if nc == nil {
		return events.NewNop()
	}
	return events.NewNats(nc)
}

func ProvideConsoleRegistry(lc fx.Lifecycle, api upstream.Client, dir directory.Service, publisher events.Publisher, cfg *config.Config) *console.Registry {
	registry := console.NewRegistry(api, dir, publisher, cfg.Console)

	sweepCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			registry.StartSweeper(sweepCtx, 5*time.Minute)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
	return registry
}
