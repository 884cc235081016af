// Package main provides the bylaw binary entry point. Bylaw evaluates
// residential zoning designations against lot geometry and reports the
// development potential: setbacks, coverage, floor area, buildable
// envelope, and compliance violations.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/parcelworks/bylaw/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "bylaw"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Residential zoning development potential engine",
		Long: `Bylaw evaluates a residential zoning designation (e.g. "RL2-0 SP:14")
against a lot's dimensions under Zoning By-law 2014-014 and reports the
development potential: resolved setbacks, maximum lot coverage and floor
area, the buildable envelope, a final buildable floor area estimate,
potential dwelling units, and any compliance violations.

Absent input measurements propagate as absent result fields, never as
guessed defaults.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFormat)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(evaluateCmd())
	cmd.AddCommand(zonesCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(serveCmd(&configPath))

	return cmd
}

// setupLogging installs the default slog logger. Flag values win over
// whatever the config file says; empty flags leave the defaults.
func setupLogging(logLevel, logFormat string) error {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "", "info":
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "", "text":
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig loads from an explicit path when given, otherwise with the
// layered loader (defaults, user config, project config, environment).
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return config.NewLoader(slog.Default()).Load()
}
