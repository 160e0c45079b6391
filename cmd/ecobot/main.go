package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/vaninafuentes/EcoBot/internal/chatserver"
	"github.com/vaninafuentes/EcoBot/internal/config"
	"github.com/vaninafuentes/EcoBot/internal/econ"
	"github.com/vaninafuentes/EcoBot/internal/httpapi"
	"github.com/vaninafuentes/EcoBot/internal/llm"
	"github.com/vaninafuentes/EcoBot/internal/logger"
	"github.com/vaninafuentes/EcoBot/internal/plot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	host := pflag.String("host", "", "listen address (overrides ECOBOT_SOCKET_HOST)")
	port := pflag.Int("port", -1, "socket port (overrides ECOBOT_SOCKET_PORT)")
	apiPort := pflag.Int("api-port", -1, "HTTP API port, 0 disables it (overrides ECOBOT_API_PORT)")
	logLevel := pflag.String("log-level", "", "log level: debug, info, warning, error")
	outDir := pflag.String("out-dir", "", "directory for generated charts")
	noConsole := pflag.Bool("no-console", false, "do not read admin commands from stdin")
	pflag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *host != "" {
		cfg.SocketHost = *host
	}
	if *port >= 0 {
		cfg.SocketPort = *port
	}
	if *apiPort >= 0 {
		cfg.APIPort = *apiPort
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}

	if initErr := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); initErr != nil {
		return fmt.Errorf("failed to initialize logger: %w", initErr)
	}
	defer func() {
		if err != nil {
			logger.Error("Fatal error: %v", err)
		}
		if closeErr := logger.Global().Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close logger: %v\n", closeErr)
		}
	}()

	logger.Info("%s v%s starting", config.BotName, config.BotVersion)

	// Without a provider the bot still runs: charts and the knowledge
	// base work, the LLM stage answers with its canned fallback.
	model, modelErr := llm.New(cfg)
	if modelErr != nil {
		logger.Warn("LLM provider unavailable: %v", modelErr)
		model = nil
	} else {
		logger.Info("LLM provider ready (%s, modelo %s)", cfg.Provider, model.ModelName())
	}

	router := econ.NewRouter(plot.NewRenderer(cfg.OutDir), model, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := chatserver.NewServer(cfg, router)
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer server.Stop()

	var apiServer *http.Server
	if cfg.APIPort > 0 {
		apiServer = &http.Server{
			Addr:    cfg.APIAddr(),
			Handler: httpapi.New(cfg, router).Handler(),
		}
		go func() {
			logger.Info("EcoBot API escuchando en %s", apiServer.Addr)
			if serveErr := apiServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.Error("HTTP API stopped: %v", serveErr)
			}
		}()
	}

	if !*noConsole {
		go func() {
			chatserver.NewConsole(server.Registry(), os.Stdin, os.Stdout).Run()
			logger.Info("Admin console closed, server keeps running")
		}()
	}

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := apiServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("HTTP API shutdown: %v", shutdownErr)
		}
	}
	server.Stop()
	return nil
}

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Uso: %s [flags]\n\nFlags:\n%s",
			strings.TrimSuffix(os.Args[0], ".exe"), pflag.CommandLine.FlagUsages())
	}
}
