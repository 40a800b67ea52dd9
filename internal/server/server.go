// Package server provides the host process lifecycle runner.
// cmd/tickhost delegates to server.Run for signal handling, config loading,
// observability init, building the embedded app, driving it, the ops
// endpoints and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/aelexs/tickhost/internal/config"
	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/errmap"
	"github.com/aelexs/tickhost/internal/headless"
	"github.com/aelexs/tickhost/internal/host"
	"github.com/aelexs/tickhost/internal/observability"
	"github.com/aelexs/tickhost/internal/timing"
)

// Params configures the lifecycle runner.
type Params struct {
	// Name identifies the service in logs and telemetry.
	Name string

	// Builders holds the app builder. Nil means host.DefaultBuilders.
	Builders *host.BuilderSlot

	// Integration bridges the app to the host's scene graph. Nil means
	// host.NopIntegration.
	Integration host.Integration

	// Assets are optional plugins attached after the integration set.
	Assets []ecs.Plugin
}

// Run executes the full lifecycle: signal handling, config loading,
// observability initialization, app construction, the headless driver, the
// ops HTTP server and graceful shutdown. If ln is non-nil, it is used
// instead of creating a new listener from config (enables port-0 testing).
//
// A faulted pass stops the driver and Run returns the fault after shutting
// down; callers treat it as fatal.
func Run(ctx context.Context, p Params, ln net.Listener) error {
	// Signal-based cancellation: ctx.Done() closes on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	source, err := timing.ParseSource(cfg.Timing.Source)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: serviceName(cfg, p.Name),
		Environment: cfg.Environment,
	})

	// --- Startup order: telemetry -> app -> HTTP server -> driver ---

	telemetry, err := observability.Setup(ctx, observability.TelemetryConfig{
		ServiceName:    serviceName(cfg, p.Name),
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	shutdownTelemetry := func() {
		otelCtx, otelCancel := context.WithTimeout(context.Background(), domain.ShutdownOTELTimeout)
		defer otelCancel()
		if shutdownErr := telemetry.Shutdown(otelCtx); shutdownErr != nil {
			logger.Error("failed to shutdown telemetry", slog.String("error", shutdownErr.Error()))
		}
	}

	h := host.New(host.Config{
		Engine:        host.EditorHint(cfg.Host.Editor),
		Integration:   p.Integration,
		Builders:      p.Builders,
		Assets:        p.Assets,
		Logger:        logger,
		MaxDelta:      cfg.Timing.MaxDelta,
		RelativeSpeed: &cfg.Timing.RelativeSpeed,
		TimingSource:  source,
		Workers:       cfg.TaskPool.Workers,
		DrainOrder:    domain.DrainOrder(cfg.Host.DrainOrder),
	})
	if err := h.Init(ctx); err != nil {
		shutdownTelemetry()
		return fmt.Errorf("init host: %w", err)
	}

	driver := headless.New(h, headless.Config{
		VisualHz:  cfg.Headless.VisualHz,
		PhysicsHz: cfg.Headless.PhysicsHz,
		Logger:    logger,
	})

	// Health check shutdown coordination via atomic flag.
	var shuttingDown atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		health := driver.Health()
		if shuttingDown.Load() {
			health = domain.ErrShuttingDown
		}
		w.Header().Set("Content-Type", "application/json")
		if health == nil {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"status":"healthy","service":%q}`, p.Name)
			return
		}
		httpErr := errmap.ToHTTPError(health)
		w.WriteHeader(httpErr.StatusCode)
		fmt.Fprintf(w, `{"status":%q,"code":%q,"service":%q}`,
			strings.ToLower(httpErr.Code), httpErr.Code, p.Name)
	})
	mux.HandleFunc("/debug/schedule", func(w http.ResponseWriter, _ *http.Request) {
		desc, ok := driver.Schedule()
		if !ok {
			httpErr := errmap.ToHTTPError(domain.ErrNotReady)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(httpErr.StatusCode)
			fmt.Fprintf(w, `{"code":%q,"message":%q}`, httpErr.Code, httpErr.Message)
			return
		}
		out, marshalErr := yaml.Marshal(scheduleDump{
			Service:     p.Name,
			InstanceID:  h.InstanceID(),
			Stats:       driver.Stats(),
			Description: desc,
		})
		if marshalErr != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
	})

	// Bind listener (use injected listener or create from config).
	if ln == nil {
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", fmt.Sprintf(":%d", cfg.Headless.HTTPPort))
		if err != nil {
			shutdownTelemetry()
			return fmt.Errorf("listen: %w", err)
		}
	}

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Structured concurrency via errgroup ---
	g, ctx := errgroup.WithContext(ctx)

	// Goroutine 1: Serve HTTP
	g.Go(func() error {
		logger.Info("starting HTTP server",
			slog.String("addr", ln.Addr().String()),
			slog.String("environment", cfg.Environment),
		)
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})

	// Goroutine 2: Drive the host. This is the only goroutine that touches
	// the app after Init.
	g.Go(func() error {
		return driver.Run(ctx)
	})

	// Goroutine 3: Shutdown trigger: waits for context cancellation, then drains.
	// Shutdown order is explicit reverse of startup: HTTP server -> telemetry.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("received shutdown signal, starting graceful shutdown")

		// 1. Mark shutting down; health checks return 503
		shuttingDown.Store(true)

		// 2. Drain delay to let probes observe the 503
		time.Sleep(domain.ShutdownDrainDelay)

		// 3. Drain HTTP server
		httpCtx, httpCancel := context.WithTimeout(context.Background(), domain.ShutdownHTTPTimeout)
		defer httpCancel()
		if shutdownErr := server.Shutdown(httpCtx); shutdownErr != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", shutdownErr.Error()))
		}

		// 4. Flush telemetry
		shutdownTelemetry()

		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

// serviceName is otel.service_name, or name when the key is empty.
func serviceName(cfg *config.Config, name string) string {
	if cfg.OTEL.ServiceName != "" {
		return cfg.OTEL.ServiceName
	}
	return name
}

// scheduleDump is the /debug/schedule document.
type scheduleDump struct {
	Service     string          `yaml:"service"`
	InstanceID  string          `yaml:"instance_id"`
	Stats       headless.Stats  `yaml:"stats"`
	Description ecs.Description `yaml:"schedule"`
}
