package cli

import (
	"github.com/spf13/cobra"

	"github.com/haasp-labs/recall/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive search interface",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	app, err := tui.NewApp(searchService)
	if err != nil {
		return err
	}

	return app.WithContext(cmd.Context()).Run()
}
