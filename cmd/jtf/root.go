package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/jtf-go/pkg/config"
	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/ukaji3/jtf-go/pkg/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jtf",
	Short: "Validate and convert JTF documents",
	Long: `jtf checks JSON table documents against the JTF schema and converts
their tables to CSV or xlsx workbooks.

Settings are read from jtf.yaml when present and may be overridden with
JTF_* environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "jtf.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// settings holds what every subcommand needs: the loaded configuration, the
// logger built from it and the document options.
type settings struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   jtf.Options
}

// loadSettings reads the config file, falling back to defaults when the
// default file does not exist. An explicitly named file must exist.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	path := cfgFile
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggerConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	logCfg.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}

	return &settings{
		cfg:    cfg,
		logger: logger,
		opts:   cfg.Options(logger),
	}, nil
}

// writeOutput writes data to path, or to the command output when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
