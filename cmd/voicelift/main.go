// Package main provides the voicelift binary entry point.
//
// voicelift turns short spoken workout commands ("bench press 80 kilos for
// 8") into logged strength-training sets. It runs as an HTTP service or as
// a local CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrWong99/voicelift/internal/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "voicelift"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals carries state shared by all subcommands. It is populated by the
// root command's PersistentPreRunE.
type globals struct {
	configPath string
	envFile    string

	cfg   *config.Config
	level slog.LevelVar
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Voice command interpreter for strength-training logs",
		Long: `voicelift interprets short, noisy spoken commands and turns them into
logged strength-training sets.

It provides:
- an HTTP API for workout sessions (serve)
- one-shot interpretation of a transcript (parse)
- an interactive logging prompt (log)
- exercise library management (exercises)
- replay of misinterpretation reports (feedback)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file (defaults plus environment when empty)")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	cmd.AddCommand(
		versionCmd(),
		serveCmd(g),
		parseCmd(g),
		logCmd(g),
		exercisesCmd(g),
		feedbackCmd(g),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Needs no configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// init loads the dotenv file, the configuration and installs the logger.
func (g *globals) init(logOut io.Writer) error {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := loadConfig(g.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %q not found, see configs/example.yaml", g.configPath)
		}
		return err
	}
	g.cfg = cfg

	g.level.Set(levelFor(cfg.Server.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: &g.level})))
	return nil
}

// loadConfig reads path, or starts from defaults when path is empty, and
// applies environment overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// onReload applies a changed configuration file. Only the log level takes
// effect without a restart.
func (g *globals) onReload(old, new *config.Config) {
	diff := config.Diff(old, new)
	if diff.LogLevelChanged {
		g.level.Set(levelFor(diff.NewLogLevel))
		slog.Info("log level changed", "level", diff.NewLogLevel)
	}
	if diff.RequiresRestart() {
		slog.Warn("configuration changed, restart to apply",
			"server", diff.ServerChanged,
			"engine", diff.EngineChanged,
			"storage", diff.StorageChanged,
			"telemetry", diff.TelemetryChanged,
		)
	}
}

func levelFor(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
