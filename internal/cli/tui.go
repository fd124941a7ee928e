package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"focustimer/internal/alert"
	"focustimer/internal/app"
	"focustimer/internal/logging"
	"focustimer/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive timer",
	Long:  "Run the full-screen timer. Space starts and pauses, s skips, r resets, t sets the task.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logFile)

	a, err := app.Open(cmd.Context(), cfg, logger, app.Options{
		Audio: alert.NewBellPlayer(os.Stdout),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(tui.Options{
		Timer:      a.Timer,
		Settings:   a.Settings,
		Statistics: a.Statistics,
		Ephemeral:  a.Ephemeral,
	})
}
