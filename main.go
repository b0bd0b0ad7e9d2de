package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const defaultListenAddr = ":8765"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var configPath, transport, listenAddr, logLevel string
	var showVersion bool

	flagSet := pflag.NewFlagSet("intervals-mcp", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (default: $INTERVALS_MCP_CONFIG)")
	flagSet.StringVar(&transport, "transport", "stdio", "transport to serve: stdio or websocket")
	flagSet.StringVar(&listenAddr, "listen", "", "listen address for the websocket transport (default "+defaultListenAddr+")")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("intervals-mcp %s\n", Version)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := LoadConfig(configPath, os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Logs go to stderr to avoid interfering with stdio communication
	logger := newLogger(cfg.LogLevel)
	client := NewIntervalsClient(cfg, WithLogger(logger))
	server := NewMCPServer(cfg, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch transport {
	case "stdio":
		logger.Info("starting Intervals.icu MCP server", "transport", "stdio", "version", Version)
		// Blocks until stdin is closed
		if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case "websocket":
		logger.Info("starting Intervals.icu MCP server", "transport", "websocket", "addr", cfg.ListenAddr, "version", Version)
		if err := server.ServeWebsocket(ctx, cfg.ListenAddr); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown transport %q (want stdio or websocket)", transport)
	}

	logger.Info("Intervals.icu MCP server shutting down")
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `intervals-mcp exposes Intervals.icu training data to MCP agents.

The API key and athlete come from API_KEY and ATHLETE_ID, or from the
YAML file given with --config. Flags override both.

Usage:
  intervals-mcp [flags]

Flags:
%s`, flagSet.FlagUsages())
}
