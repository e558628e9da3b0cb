package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/ukaji3/jtf-go/pkg/watch"
)

var validateFlags struct {
	watch bool
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate JTF documents",
	Long: `Validate one or more JTF documents against the schema.

Each file is reported as "✓ path" or "✗ path: reason". The command exits
non-zero when any document is invalid. With --watch the files are validated
again after every change until the command is interrupted.

Examples:
  jtf validate report.json
  jtf validate *.json --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&validateFlags.watch, "watch", "w", false, "re-validate files when they change")
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range args {
		if !validateFile(cmd, s, path) {
			failed++
		}
	}

	if !validateFlags.watch {
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
		}
		return nil
	}

	w, err := watch.New(args, s.cfg.Watch.Debounce, s.logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Watch(ctx, func(path string) error {
		validateFile(cmd, s, path)
		return nil
	})
}

// validateFile parses one document and prints the outcome.
func validateFile(cmd *cobra.Command, s *settings, path string) bool {
	_, err := jtf.ParseFile(path, s.opts)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", path, err)
		s.logger.Debug("Document rejected", "path", path, "error", err)
		return false
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
	return true
}
