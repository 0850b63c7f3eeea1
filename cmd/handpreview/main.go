// Command handpreview uploads a short hand video to the capture
// backend, previews the reconstructed skeleton, and exports the run
// artifacts.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/bdougie/handpreview/internal/config"
	"github.com/bdougie/handpreview/internal/pipeline"
)

var (
	flagServer  string
	flagVerbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "handpreview",
		Short:         "Hand-capture motion preview client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "backend base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newPlayCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newHealthCmd())
	return root
}

// newLogger configures the tinted slog handler shared by all commands.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)
}

// loadConfig reads the config from the working directory and applies
// command-line overrides.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Read(cwd)
	if err != nil {
		return nil, err
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}
	return cfg, nil
}

// newBackendClient builds the pipeline client from config.
func newBackendClient(cfg *config.Config, logger *slog.Logger) (*pipeline.Client, error) {
	return pipeline.NewClient(cfg.Server, time.Duration(cfg.TimeoutSeconds)*time.Second, logger)
}
