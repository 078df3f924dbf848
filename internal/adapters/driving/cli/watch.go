package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haasp-labs/recall/internal/connectors/filesystem"
)

var watchScanOnly bool

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Index a directory and keep it in sync",
	Long: `Scans the directory for text files (.txt, .md, .markdown, .rst) and
indexes them, then watches for new and modified files until interrupted.
Each file's document id is its path relative to the directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchScanOnly, "scan-only", false, "index once and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureServices(ctx); err != nil {
		return err
	}

	watcher := filesystem.New(args[0], ingestService)

	if watchScanOnly {
		count, err := watcher.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		cmd.Printf("Indexed %d files from %s\n", count, args[0])
		return nil
	}

	cmd.Printf("Watching %s (ctrl+c to stop)\n", args[0])
	if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
