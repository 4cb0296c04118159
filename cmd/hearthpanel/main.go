// Hearth Panel - smart home control panel core
//
// This is the headless client core behind a Hearth wall panel: it owns the
// authenticated session, the entity registry, optimistic command dispatch
// and the live state feed. Rendering is a separate concern layered on top.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hearthlabs/hearth-panel/internal/api"
	"github.com/hearthlabs/hearth-panel/internal/auth"
	"github.com/hearthlabs/hearth-panel/internal/infrastructure/config"
	"github.com/hearthlabs/hearth-panel/internal/infrastructure/database"
	"github.com/hearthlabs/hearth-panel/internal/infrastructure/influxdb"
	"github.com/hearthlabs/hearth-panel/internal/infrastructure/logging"
	"github.com/hearthlabs/hearth-panel/internal/mutation"
	"github.com/hearthlabs/hearth-panel/internal/panel"
	"github.com/hearthlabs/hearth-panel/internal/registry"
	"github.com/hearthlabs/hearth-panel/internal/session"
	"github.com/hearthlabs/hearth-panel/internal/statefeed"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Hearth Panel", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	// Local store for the durable session
	db, err := database.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing local store", "error", closeErr)
		}
	}()

	store, err := session.NewSQLiteStore(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("initialising session store: %w", err)
	}

	// Backend API client. A 401 forces a logout: the stored session is
	// cleared and the next user interaction starts from the login screen.
	client := api.NewClient(cfg.API.BaseURL,
		time.Duration(cfg.API.Timeout)*time.Second,
		api.WithTokenSource(panel.SessionTokenSource{Store: store}),
		api.WithLogger(log.With("component", "api")),
		api.WithOnUnauthorized(func() {
			if err := store.ClearSession(context.Background()); err != nil {
				log.Error("failed to clear rejected session", "error", err)
			}
		}),
	)

	// Optional telemetry sink
	var recorder *influxdb.Client
	if cfg.InfluxDB.Enabled {
		recorder, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			// Telemetry is best-effort; the panel runs without it.
			log.Warn("telemetry sink unavailable", "error", err)
			recorder = nil
		} else {
			defer recorder.Close() //nolint:errcheck // Flush-and-close at shutdown
			recorder.SetOnError(func(err error) {
				log.Warn("telemetry write failed", "error", err)
			})
			log.Info("telemetry sink connected", "url", cfg.InfluxDB.URL)
		}
	}

	reg := registry.NewRegistry(panel.EntityLoader{Client: client})
	reg.SetLogger(log.With("component", "registry"))

	policy := auth.NewPolicy(auth.Role(cfg.Permissions.DeviceControlRole))

	engineOpts := []mutation.Option{
		mutation.WithTimeout(time.Duration(cfg.Mutation.Timeout) * time.Second),
		mutation.WithLogger(log.With("component", "mutation")),
		mutation.WithOnResult(func(res mutation.Result) {
			if res.Err != nil {
				log.Warn("command failed", "entity", res.EntityID,
					"rolled_back", res.RolledBack, "error", res.Err)
			}
		}),
	}
	if recorder != nil {
		engineOpts = append(engineOpts, mutation.WithRecorder(recorder))
	}
	engine := mutation.NewEngine(reg, panel.EntityCommander{Client: client},
		panel.SessionRoleSource{Store: store}, policy, engineOpts...)
	defer engine.Wait()

	controller := panel.NewController(client, store, policy, reg, engine,
		log.With("component", "panel"))

	// Headless auto-login for installations without an interactive first run
	if !store.IsAuthenticated(ctx) {
		email := os.Getenv("HEARTH_LOGIN_EMAIL")
		code := os.Getenv("HEARTH_LOGIN_MASTER_CODE")
		if email != "" && code != "" {
			if err := controller.Login(ctx, email, code); err != nil {
				return fmt.Errorf("auto-login: %w", err)
			}
		} else {
			log.Warn("no stored session and no login credentials; backend calls will be unauthenticated")
		}
	}

	if err := reg.LoadAll(ctx); err != nil {
		// Not fatal: the poll loop keeps retrying and the panel can render
		// the last known (empty) state meanwhile.
		log.Warn("initial registry load failed", "error", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	switch cfg.StateFeed.Mode {
	case config.FeedModeWebSocket:
		source := statefeed.NewWSSource(cfg.StateFeed.WebSocket, reg, engine,
			panel.SessionTokenSource{Store: store}, feedRecorder(recorder),
			log.With("component", "statefeed"))
		group.Go(func() error { return source.Run(groupCtx) })
	case config.FeedModeMQTT:
		source := statefeed.NewMQTTSource(cfg.StateFeed.MQTT, reg, engine,
			feedRecorder(recorder), log.With("component", "statefeed"))
		group.Go(func() error { return source.Run(groupCtx) })
	}

	if cfg.Poll.Interval > 0 {
		interval := time.Duration(cfg.Poll.Interval) * time.Second
		group.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
					if err := reg.LoadAll(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
						log.Warn("registry refresh failed", "error", err)
					}
				}
			}
		})
	}

	log.Info("hearth panel running",
		"entities", reg.Count(),
		"statefeed", cfg.StateFeed.Mode,
	)

	if err := group.Wait(); err != nil {
		return fmt.Errorf("runtime: %w", err)
	}
	log.Info("shutting down")
	return nil
}

// feedRecorder avoids handing the feed a typed-nil interface value.
func feedRecorder(c *influxdb.Client) statefeed.Recorder {
	if c == nil {
		return nil
	}
	return c
}

// getConfigPath resolves the configuration path from argv or environment,
// falling back to the default.
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
