package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/blocker"
	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/monitor"
	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/recognizer"
	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/server"
	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/store"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/auth"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/config"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/crypto"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/tracing"
)

const serverVersion = "1.0.0"

func main() {
	var (
		configFile  = flag.String("config", "", "Path to YAML configuration file")
		host        = flag.String("host", "", "Server host (overrides config)")
		port        = flag.Int("port", 0, "Server port (overrides config)")
		logLevel    = flag.String("log-level", "", "Log level (overrides config)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("data-protection server v%s\n", serverVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := newLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func run(cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
		Service:  cfg.Tracing.Service,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("trace flush failed")
		}
	}()

	cipher, err := crypto.NewCipher(cfg.Crypto.Passphrase, cfg.Crypto.Salt)
	if err != nil {
		return fmt.Errorf("initializing cipher: %w", err)
	}

	var ner dlp.EntityRecognizer
	var nerStatus server.RecognizerStatus
	if cfg.Recognizer.BaseURL != "" {
		client := recognizer.NewClient(cfg.Recognizer, logger)
		ner = client
		nerStatus = client
		logger.Info().Str("url", cfg.Recognizer.BaseURL).Msg("external recognizer configured")
	}

	engine, err := dlp.NewEngine(dlp.Config{
		Recognizer:     ner,
		Encrypt:        cipher.EncryptValue,
		ScoreProximity: cfg.Engine.ScoreProximity,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}

	policies := store.NewPolicyStore()
	if err := policies.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seeding default policies: %w", err)
	}
	alerts := store.NewAlertStore()
	logs := store.NewLogStore(10000)

	agent := blocker.NewClient(cfg.Blocker, logger)

	manager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		return fmt.Errorf("initializing auth: %w", err)
	}

	users := server.NewUserStore()
	if err := seedAdminUser(users); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	var mailMonitor *monitor.Monitor
	if cfg.Monitor.SpoolDir != "" {
		source := monitor.NewSpoolSource(cfg.Monitor.SpoolDir, logger)
		mailMonitor, err = monitor.NewMonitor(cfg.Monitor, engine, policies, alerts, logs, agent, source, logger)
		if err != nil {
			return fmt.Errorf("initializing email monitor: %w", err)
		}
		if err := mailMonitor.Start(); err != nil {
			return fmt.Errorf("starting email monitor: %w", err)
		}
		defer mailMonitor.Stop()
	}

	srv, err := server.New(cfg.Addr(), server.Deps{
		Engine:      engine,
		Policies:    policies,
		Alerts:      alerts,
		Logs:        logs,
		Blocker:     agent,
		Auth:        manager,
		Users:       users,
		Monitor:     mailMonitor,
		Recognizer:  nerStatus,
		BlockerInfo: agent,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	return srv.Run(ctx)
}

// seedAdminUser creates the bootstrap account from ADMIN_USERNAME and
// ADMIN_PASSWORD. Without a password no account is created and only the API
// surface without auth (health, login) responds.
func seedAdminUser(users *server.UserStore) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return nil
	}
	_, err := users.AddUser(username, password, auth.RoleAdmin)
	return err
}
