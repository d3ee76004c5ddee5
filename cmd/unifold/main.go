package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/unifold/pkg/api"
	"github.com/hazyhaar/unifold/pkg/chassis"
	"github.com/hazyhaar/unifold/pkg/icu"
	"github.com/hazyhaar/unifold/pkg/importer"
	"github.com/hazyhaar/unifold/pkg/store"
	"github.com/mark3labs/mcp-go/server"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "probe":
		cmdProbe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: unifold <command>

Commands:
  serve    Start the HTTP server (HTTP/3 too when TLS is enabled)
  import   Import datasets into the store
  probe    Report ICU and collation support of the configured driver
  mcp      Serve the MCP tools over stdio
`)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func mustConfig(path string, logger *slog.Logger) config {
	cfg, found, err := loadConfig(path)
	if err != nil {
		logger.Error("load config", "path", path, "error", err)
		os.Exit(1)
	}
	if !found {
		logger.Info("no config file, using defaults", "path", path)
	}
	return cfg
}

// openStore installs the Unicode collations and functions on the configured
// driver, then opens the store.
func openStore(ctx context.Context, cfg config, probe bool, logger *slog.Logger) (*store.Store, error) {
	var err error
	if cfg.Driver == icu.CgoDriverName {
		err = icu.RegisterCgoDriver(cfg.ICU)
	} else {
		err = icu.Register(cfg.ICU)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", cfg.Driver, err)
	}
	return store.Open(ctx, cfg.DBPath, store.Options{
		Driver: cfg.Driver,
		Probe:  probe,
		Logger: logger,
	})
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := mustConfig(*cfgPath, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, cfg.Probe, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	n, _ := st.Count(ctx)
	logger.Info("store opened", "path", cfg.DBPath, "driver", cfg.Driver, "entries", n, "strategy", st.Strategy())

	mcpSrv := api.NewMCPServer(st, version, logger)
	router := api.NewRouter(st, mcpSrv, logger)

	// SIGHUP: re-import every dataset under datasets_dir.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		im := importer.New(st, logger)
		for range sighup {
			logger.Info("SIGHUP received, re-importing datasets", "dir", cfg.DatasetsDir)
			total, err := importAll(ctx, im, cfg.DatasetsDir, logger)
			if err != nil {
				logger.Error("re-import failed", "error", err)
				continue
			}
			logger.Info("datasets re-imported", "entries", total)
		}
	}()

	if cfg.CheckInterval > 0 {
		go importer.NewChecker(st, logger, cfg.CheckInterval).Start(ctx)
	}

	if cfg.TLS.Enabled {
		serveChassis(ctx, cfg, router, logger)
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("unifold listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func serveChassis(ctx context.Context, cfg config, handler http.Handler, logger *slog.Logger) {
	srv, err := chassis.New(chassis.Config{
		Addr:     cfg.Addr,
		CertFile: cfg.TLS.CertFile,
		KeyFile:  cfg.TLS.KeyFile,
		Handler:  handler,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("chassis setup", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

func cmdProbe(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	dbPath := fs.String("db", "", "database to probe (default: db_path from config)")
	fs.Parse(args)

	logger := newLogger()
	cfg := mustConfig(*cfgPath, logger)
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, true, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var icuVersion string
	if err := st.DB().QueryRowContext(ctx, `SELECT icu_version()`).Scan(&icuVersion); err != nil {
		icuVersion = "unavailable"
	}

	fmt.Printf("driver:    %s\n", cfg.Driver)
	fmt.Printf("strategy:  %s\n", st.Strategy())
	fmt.Printf("functions: %s\n", icuVersion)
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// stdout carries the protocol; logs stay on stderr.
	logger := newLogger()
	cfg := mustConfig(*cfgPath, logger)

	st, err := openStore(context.Background(), cfg, cfg.Probe, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := server.ServeStdio(api.NewMCPServer(st, version, logger)); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp stdio", "error", err)
		os.Exit(1)
	}
}
