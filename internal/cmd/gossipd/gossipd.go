// Package gossipd parses gossip daemon flags and launches the runtime.
package gossipd

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/rumormill/internal/platform/cmd"
	gossipapp "github.com/louisbranch/rumormill/internal/services/gossip/app"
)

// Config holds gossipd command configuration.
type Config struct {
	Port          int           `env:"RUMORMILL_GOSSIP_PORT" envDefault:"8095"`
	DBPath        string        `env:"RUMORMILL_GOSSIP_DB_PATH" envDefault:"data/gossip.db"`
	CatalogPath   string        `env:"RUMORMILL_GOSSIP_CATALOG_PATH"`
	Workers       int           `env:"RUMORMILL_GOSSIP_WORKERS" envDefault:"4"`
	SweepInterval time.Duration `env:"RUMORMILL_GOSSIP_SWEEP_INTERVAL" envDefault:"1m"`
	PerHopRate    float64       `env:"RUMORMILL_GOSSIP_PER_HOP_RATE" envDefault:"0.1"`
	Seed          int64         `env:"RUMORMILL_GOSSIP_SEED" envDefault:"0"`
	Demo          bool          `env:"RUMORMILL_GOSSIP_DEMO" envDefault:"false"`
	DemoInterval  time.Duration `env:"RUMORMILL_GOSSIP_DEMO_INTERVAL" envDefault:"5s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The gossip health gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The gossip archive SQLite database path")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Path to a JSON gossip catalog (empty uses builtin content)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Hop worker count")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "Interest decay sweep interval")
	fs.Float64Var(&cfg.PerHopRate, "per-hop-rate", cfg.PerHopRate, "Truth decay rate per retelling")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for reproducible runs (0 draws a fresh seed)")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "Run the demo traffic driver")
	fs.DurationVar(&cfg.DemoInterval, "demo-interval", cfg.DemoInterval, "Demo driver tick interval")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the gossip runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGossipd, func(context.Context) error {
		return gossipapp.Run(ctx, gossipapp.RuntimeConfig{
			Port:          cfg.Port,
			DBPath:        cfg.DBPath,
			CatalogPath:   cfg.CatalogPath,
			Workers:       cfg.Workers,
			SweepInterval: cfg.SweepInterval,
			PerHopRate:    cfg.PerHopRate,
			Seed:          cfg.Seed,
			Demo:          cfg.Demo,
			DemoInterval:  cfg.DemoInterval,
		})
	})
}
