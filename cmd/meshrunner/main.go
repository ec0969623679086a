// Command meshrunner loads a topology configuration, builds a System and
// a Runner over it, and serves the admin introspection API while the
// runner drives prompt propagation.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eventflow/meshrunner/pkg/adminapi"
	"github.com/eventflow/meshrunner/pkg/app"
	"github.com/eventflow/meshrunner/pkg/config"
	"github.com/eventflow/meshrunner/pkg/demoapp"
	"github.com/eventflow/meshrunner/pkg/eventlog"
	"github.com/eventflow/meshrunner/pkg/eventlog/pgstore"
	"github.com/eventflow/meshrunner/pkg/runner"
	"github.com/eventflow/meshrunner/pkg/topology"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"path to configuration directory containing mesh.yaml")
	addr := flag.String("addr", getEnv("ADMIN_ADDR", ":8080"), "admin API listen address")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	meshCfg, err := config.Load(*configDir)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// The registry is built-in demo classes by default. A host embedding
	// meshrunner with real business applications supplies its own
	// topology.Registry here instead and skips demoapp entirely.
	registry := demoapp.BuildRegistry(meshCfg.Topology.Pipes, meshCfg.Log.BucketSize)

	pipes, err := config.BuildPipes(&meshCfg.Topology, registry)
	if err != nil {
		slog.Error("failed to resolve topology pipes", "error", err)
		os.Exit(1)
	}

	sys, err := topology.New(registry, pipes...)
	if err != nil {
		slog.Error("failed to build topology", "error", err)
		os.Exit(1)
	}

	rnr, err := config.NewRunner(meshCfg.Runner.Kind, sys)
	if err != nil {
		slog.Error("failed to select runner", "error", err)
		os.Exit(1)
	}

	if err := rnr.Start(); err != nil {
		slog.Error("failed to start runner", "error", err)
		os.Exit(1)
	}
	slog.Info("runner started",
		"kind", meshCfg.Runner.Kind,
		"leaders", sys.Leaders(),
		"followers", sys.Followers(),
		"processors", sys.Processors(),
		"leaders_only", sys.LeadersOnly())

	if meshCfg.Log.Postgres != nil && meshCfg.Log.Postgres.Enabled {
		store := openDurableStore()
		if store != nil {
			defer store.Close()
			wireDurableStorage(rnr, sys, store)
		}
	}

	srv := adminapi.NewServer(sys, rnr)
	httpServer := &http.Server{Addr: *addr, Handler: srv.Handler()}

	go func() {
		slog.Info("admin API listening", "addr", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("admin API server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("admin API shutdown error", "error", err)
	}
	rnr.Stop()
}

// openDurableStore connects pgstore using EVENTLOG_DB_* environment
// settings, logging and returning nil on failure rather than aborting
// startup: durable persistence is an add-on to the in-process log, not a
// prerequisite for it.
func openDurableStore() *pgstore.Store {
	dbCfg, err := pgstore.LoadConfigFromEnv()
	if err != nil {
		slog.Error("invalid postgres event store configuration", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := pgstore.Open(ctx, dbCfg)
	if err != nil {
		slog.Error("failed to open postgres event store", "error", err)
		return nil
	}
	slog.Info("durable event storage enabled", "host", dbCfg.Host, "database", dbCfg.Database)
	return store
}

// wireDurableStorage subscribes store to every leader's log, so each
// MessageLogged event a leader publishes is persisted alongside being
// relayed to its followers. Processors count as leaders here too: they
// publish their own derived messages the same way a pure leader does.
func wireDurableStorage(rnr runner.Runner, sys *topology.System, store *pgstore.Store) {
	for _, name := range sys.Leaders() {
		instance, err := rnr.Get(name)
		if err != nil {
			slog.Error("could not look up leader for durable storage", "name", name, "error", err)
			continue
		}
		leader, ok := instance.(app.Leader)
		if !ok {
			continue
		}
		log, ok := leader.Log().(*eventlog.Log)
		if !ok {
			slog.Warn("leader's log handle is not *eventlog.Log, skipping durable storage", "name", name)
			continue
		}
		log.SubscribeStore(store, func(err error) {
			slog.Error("failed to persist event", "name", name, "error", err)
		})
	}
}
