package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/rumormill/internal/services/gossip/assets"
	"github.com/louisbranch/rumormill/internal/services/gossip/catalog"
	gossipsqlite "github.com/louisbranch/rumormill/internal/services/gossip/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// RuntimeConfig controls gossipd startup and loop behavior.
type RuntimeConfig struct {
	Port          int
	DBPath        string
	CatalogPath   string
	Workers       int
	SweepInterval time.Duration
	PerHopRate    float64
	Seed          int64
	Demo          bool
	DemoInterval  time.Duration
}

const (
	defaultGossipPort    = 8095
	defaultGossipDB      = "data/gossip.db"
	defaultSweepInterval = time.Minute
	defaultDemoInterval  = 5 * time.Second
)

// Run starts gossipd runtime dependencies and blocks until ctx is done.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultGossipPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultGossipDB
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.DemoInterval <= 0 {
		cfg.DemoInterval = defaultDemoInterval
	}

	set, err := loadContent(cfg.CatalogPath)
	if err != nil {
		return err
	}
	cat, warnings, err := catalog.New(set.Templates, set.Pools)
	if err != nil {
		return fmt.Errorf("build gossip catalog: %w", err)
	}
	for _, warning := range warnings {
		log.Printf("catalog warning: template %s: %s", warning.TemplateID, warning.Message)
	}
	if cat.Len() == 0 {
		return fmt.Errorf("gossip catalog is empty after validation")
	}
	log.Printf("gossip catalog loaded with %d templates", cat.Len())

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create gossip storage dir: %w", err)
		}
	}
	archiveStore, err := gossipsqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open gossip sqlite store: %w", err)
	}
	defer func() {
		if closeErr := archiveStore.Close(); closeErr != nil {
			log.Printf("close gossip sqlite store: %v", closeErr)
		}
	}()

	supervisor, err := NewSupervisor(SupervisorConfig{
		Catalog:    cat,
		Store:      archiveStore,
		Workers:    cfg.Workers,
		Seed:       cfg.Seed,
		PerHopRate: cfg.PerHopRate,
	})
	if err != nil {
		return fmt.Errorf("start gossip supervisor: %w", err)
	}
	defer supervisor.Close()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on gossip port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("gossip.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	if cfg.Demo {
		go runDemoDriver(ctx, supervisor, cat, cfg.DemoInterval)
	}

	log.Printf("gossip server listening at %v", listener.Addr())

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if swept := supervisor.Sweep(now); swept > 0 {
				log.Printf("swept %d stale gossip instances", swept)
			}
		}
	}
}

func loadContent(catalogPath string) (assets.Set, error) {
	if strings.TrimSpace(catalogPath) == "" {
		return assets.Builtin(), nil
	}
	set, err := assets.LoadFile(catalogPath)
	if err != nil {
		return assets.Set{}, fmt.Errorf("load gossip catalog %s: %w", catalogPath, err)
	}
	return set, nil
}
