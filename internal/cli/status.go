package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/service"
	"focustimer/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved timer state",
	Long: `Show the timer state as last saved. A running timer is reported as it was
at the time of the snapshot; it resumes paused when the timer is next opened.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	snapshot, found, err := service.ReadSnapshot(cmd.Context(), a.Store)
	if err != nil {
		return fmt.Errorf("read timer state: %w", err)
	}
	if !found {
		fmt.Fprintln(out, "No saved timer. Next session: Focus")
		return nil
	}

	status := snapshot.TimerStatus
	fmt.Fprintf(out, "Session:   %s\n", status.SessionType.Label())
	fmt.Fprintf(out, "State:     %s\n", status.State.Label())
	fmt.Fprintf(out, "Remaining: %s of %s\n", tui.FormatClock(status.TimeRemaining), tui.FormatClock(status.TotalDuration))
	fmt.Fprintf(out, "Cycle:     %d/%d focus sessions\n", status.FocusSessionCount, a.Settings.Current().LongBreakInterval)
	if status.TaskLabel != nil {
		fmt.Fprintf(out, "Task:      %s\n", *status.TaskLabel)
	}
	fmt.Fprintf(out, "Saved:     %s\n", humanize.Time(snapshot.Timestamp))
	if age := time.Since(snapshot.Timestamp); age > a.Config.SnapshotMaxAge {
		fmt.Fprintln(out, "This snapshot is stale and will be discarded on next start.")
	}
	return nil
}
