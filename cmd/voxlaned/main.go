package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiPkg "github.com/voxlane-io/voxlane/internal/api"
	"github.com/voxlane-io/voxlane/internal/capability"
	"github.com/voxlane-io/voxlane/internal/config"
	"github.com/voxlane-io/voxlane/internal/dispatch"
	"github.com/voxlane-io/voxlane/internal/endpoint"
	"github.com/voxlane-io/voxlane/internal/history"
	"github.com/voxlane-io/voxlane/internal/logbuf"
	"github.com/voxlane-io/voxlane/internal/tool"
	"github.com/voxlane-io/voxlane/internal/transport"
	"github.com/voxlane-io/voxlane/internal/webhook"
	"github.com/voxlane-io/voxlane/pkg/protocol"
)

func main() {
	configPath := flag.String("config", "", "Path to config JSON file")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// Set up logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logBuf := logbuf.New(2000)
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logbuf.NewHandler(jsonHandler, logBuf))

	// Load config (2 modes: file, env)
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("voxlaned starting", "model", cfg.Realtime.Model)

	// 1. Endpoint store: SQLite when a path is configured, memory otherwise
	var store endpoint.Store
	if cfg.Webhook.DBPath != "" {
		sqlStore, err := endpoint.NewSQLiteStore(cfg.Webhook.DBPath)
		if err != nil {
			logger.Error("failed to open endpoint store", "path", cfg.Webhook.DBPath, "error", err)
			os.Exit(1)
		}
		store = sqlStore
	} else {
		logger.Warn("no webhook.db_path configured, endpoint configs will not persist")
		store = endpoint.NewMemoryStore()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Capability snapshot + periodic refresh
	caps := capability.NewStaticProvider(cfg.CapabilityFlags())
	refresher := capability.NewRefresher(caps, cfg.CapabilityFlags, logger.With("component", "capability"))
	go safeGo(logger, "capability-refresher", func() {
		refresher.Start(ctx, cfg.Tools.RefreshSchedule)
	})

	// 3. Tool registry
	var forwarder *webhook.Forwarder
	if cfg.Webhook.ProxyPrefix != "" {
		forwarder = &webhook.Forwarder{
			ProxyPrefix:    cfg.Webhook.ProxyPrefix,
			SameOriginHost: cfg.Webhook.SameOriginHost,
		}
	}
	invoker := webhook.NewInvoker(nil, forwarder, logger.With("component", "webhook"))

	reg := tool.NewRegistry(caps, logger.With("component", "tools"))
	reg.Register(&tool.WebhookCallTool{Store: store, Invoker: invoker})
	reg.Register(&tool.WebSearchTool{APIKey: cfg.Tools.BraveAPIKey})
	reg.Register(&tool.WebFetchTool{})
	reg.Register(&tool.PaletteTool{})
	reg.Register(&tool.DatetimeTool{})
	reg.Register(&tool.ClipboardTool{})
	logger.Info("tools registered", "count", reg.Len(), "enabled", reg.EnabledNames())

	// 4. Dispatch engine + realtime transport
	hist := history.New(500)
	renderer := &logRenderer{logger: logger.With("component", "render")}

	var rt *transport.Realtime
	engine := dispatch.NewEngine(reg, resultSenderFunc(func(callID, content string) error {
		return rt.SendFunctionResult(callID, content)
	}), hist, renderer, logger.With("component", "dispatch"))

	advertise := func() {
		if err := rt.UpdateSession(cfg.Realtime.Instructions, reg.EnabledDefinitions()); err != nil {
			logger.Error("failed to advertise tools", "error", err)
		}
	}

	handler := func(ctx context.Context, ev *protocol.ServerEvent) {
		if ev.Type == protocol.EventTypeSessionCreated {
			advertise()
		}
		engine.HandleEvent(ctx, ev)
	}

	rt = transport.New(transport.Config{
		URL:    cfg.Realtime.URL,
		Model:  cfg.Realtime.Model,
		APIKey: cfg.Realtime.APIKey,
	}, handler, logger.With("component", "transport"))

	// Capability changes re-advertise the enabled tool set mid-session
	caps.Subscribe(func(flags map[string]bool) {
		logger.Info("capabilities changed", "flags", flags)
		advertise()
	})

	go safeGo(logger, "realtime", func() {
		// Reconnect with a fixed delay until shutdown
		for {
			if err := rt.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("realtime connection lost", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	})

	// 5. Start admin API server
	apiSrv := apiPkg.NewServer(store, reg, hist, logBuf, apiPkg.Config{
		Host: cfg.API.Host,
		Port: cfg.API.Port,
		Key:  cfg.API.Key,
	}, logger.With("component", "api"))

	go safeGo(logger, "api-server", func() { apiSrv.Start(ctx) })
	logger.Info("api server started", "port", cfg.API.Port)

	// 6. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()
	rt.Stop()
	logger.Info("voxlaned stopped")
}

// safeGo runs fn with panic recovery.
func safeGo(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("goroutine panicked", "name", name, "panic", fmt.Sprintf("%v", r))
		}
	}()
	fn()
}

// resultSenderFunc adapts a function to dispatch.ResultSender.
type resultSenderFunc func(callID, content string) error

func (f resultSenderFunc) SendFunctionResult(callID, content string) error {
	return f(callID, content)
}

// logRenderer surfaces tool results in the daemon log. A UI frontend would
// replace this with its own renderer.
type logRenderer struct {
	logger *slog.Logger
}

func (r *logRenderer) RenderToolResult(toolName string, status protocol.ResultStatus, parsed any) {
	r.logger.Info("tool result", "tool", toolName, "status", string(status))
	if status == protocol.StatusError {
		r.logger.Debug("tool error detail", "tool", toolName, "result", parsed)
	}
}