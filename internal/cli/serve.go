package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"probgen/internal/api"
	"probgen/internal/config"
	"probgen/internal/logging"
)

// serveAPI is a test seam for running the HTTP server.
var serveAPI = api.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for probgen.yml)")
		catalogPath := flags.String("catalog", "", "Path to question catalog (default: from config)")
		addr := flags.String("addr", "", "Address to listen on (default: from config)")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		cfg, engine, err := loadEngine(*configPath, *catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}
		if value := strings.TrimSpace(*addr); value != "" {
			cfg.Server.ListenAddr = value
		}

		logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
		handler := api.NewHandler(api.Config{
			Engine:      engine,
			Logger:      logger,
			CORSOrigins: cfg.Server.CORSOrigins,
			Limiter:     config.Limiter(cfg),
		})
		serverCfg := api.ServerConfig{
			Addr:            cfg.Server.ListenAddr,
			ReadTimeout:     seconds(cfg.Server.ReadTimeoutSeconds),
			WriteTimeout:    seconds(cfg.Server.WriteTimeoutSeconds),
			ShutdownTimeout: seconds(cfg.Server.ShutdownTimeoutSeconds),
			Ready: func(bound string) {
				logger.Info("server listening", "addr", bound, "questions", engine.Catalog().Len())
				fmt.Fprintf(stdout, "Serving API at http://%s\n", bound)
			},
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := serveAPI(ctx, serverCfg, handler); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		logger.Info("server stopped")
		return ExitOK
	}
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}
