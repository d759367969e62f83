package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/runixer/rhetoric/internal/app"
	"github.com/runixer/rhetoric/internal/config"
)

const defaultConfigSubPath = "configs/config.yaml"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const cliKey contextKey = iota

// cliEnv is what every command gets after PersistentPreRunE.
type cliEnv struct {
	logger     *slog.Logger
	cfg        *config.Config
	configPath string
	services   *app.Services
}

var rootCmd = &cobra.Command{
	Use:   "rhetoric-cli",
	Short: "Terminal client for the Rhetoric speech coach",
	Long: `rhetoric-cli uploads a video to the Rhetoric analysis backend and prints
the same feedback the web page shows: quote, pacing, clarity, transcript,
flagged gesture frames and a suggested video.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile := mustGetString(cmd, "config")
		verbose := mustGetBool(cmd, "verbose")

		// Load .env from CWD - fail only if config was explicitly provided
		if err := app.LoadEnv(); err != nil {
			if cfgFile != "" {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load .env: %v\n", err)
		}

		// Quiet by default, verbose shows all logs
		out := io.Discard
		if verbose {
			out = cmd.ErrOrStderr()
		}
		logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)

		resolvedCfgPath, err := findConfigPath(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to find config: %w", err)
		}

		cfg, err := config.Load(resolvedCfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		services, err := app.SetupServices(logger, cfg)
		if err != nil {
			return err
		}

		env := &cliEnv{
			logger:     logger,
			cfg:        cfg,
			configPath: resolvedCfgPath,
			services:   services,
		}
		cmd.SetContext(context.WithValue(cmd.Context(), cliKey, env))
		return nil
	},
}

// getEnv retrieves the cliEnv from context.
func getEnv(cmd *cobra.Command) *cliEnv {
	if env := cmd.Context().Value(cliKey); env != nil {
		return env.(*cliEnv)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: configs/config.yaml if present, else built-in defaults)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose debug output on stderr")
}

// findConfigPath resolves the config file path.
// Searches in order: provided path, CWD/configs/config.yaml, then defaults.
func findConfigPath(providedPath string) (string, error) {
	if providedPath != "" {
		if _, err := os.Stat(providedPath); err == nil {
			return providedPath, nil
		}
		return "", fmt.Errorf("config file not found: %s", providedPath)
	}

	if _, err := os.Stat(defaultConfigSubPath); err == nil {
		return defaultConfigSubPath, nil
	}

	// Config not found - empty path means built-in defaults
	return "", nil
}

// mustGetString retrieves a string flag value. Panics on error (indicates bug in flag name).
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("bug: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetBool retrieves a bool flag value. Panics on error (indicates bug in flag name).
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("bug: failed to get flag %q: %v", name, err))
	}
	return val
}
