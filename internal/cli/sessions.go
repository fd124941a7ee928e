package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List finished sessions, newest first",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum sessions to list (0 for all)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	sessions := a.Sessions.Recent(sessionsLimit)
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions yet.")
		return nil
	}

	for _, s := range sessions {
		outcome := "completed"
		if s.Interrupted {
			outcome = "interrupted"
		}
		fmt.Fprintf(out, "%-12s %-11s %-11s %6s",
			humanize.Time(s.StartTime), s.Type.Label(), outcome, formatSeconds(s.Duration()))
		if label := s.Label(); label != "" {
			fmt.Fprintf(out, "  %s", label)
		}
		fmt.Fprintln(out)
	}
	return nil
}
