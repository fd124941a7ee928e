package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/daterange"
)

var (
	statsFrom    string
	statsTo      string
	statsRebuild bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus statistics",
	Long: `Show totals, streaks and a per-day breakdown.

--from and --to accept dates (2026-05-01) or phrases such as "yesterday" or
"last monday". The default range is the last seven days.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "First day of the breakdown")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "Last day of the breakdown")
	statsCmd.Flags().BoolVar(&statsRebuild, "rebuild", false, "Recompute statistics from the session history first")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	from, to, err := daterange.NewParser(time.Local).Range(statsFrom, statsTo, time.Now())
	if err != nil {
		return err
	}

	if statsRebuild {
		if err := a.Statistics.Rebuild(cmd.Context()); err != nil {
			return fmt.Errorf("rebuild statistics: %w", err)
		}
	}

	stats := a.Statistics.Current()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Focus Statistics")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Focus sessions:     %s\n", humanize.Comma(int64(stats.TotalFocusSessions)))
	fmt.Fprintf(out, "Focus time:         %s\n", formatSeconds(stats.TotalFocusTime))
	fmt.Fprintf(out, "Break time:         %s\n", formatSeconds(stats.TotalBreakTime))
	fmt.Fprintf(out, "Average per day:    %s\n", formatSeconds(int(stats.AverageFocusTime)))
	fmt.Fprintf(out, "Current streak:     %d days\n", stats.CurrentStreak)
	fmt.Fprintf(out, "Longest streak:     %d days\n", stats.LongestStreak)
	if hour, ok := stats.MostProductiveHour.Get(); ok {
		fmt.Fprintf(out, "Most productive:    %02d:00-%02d:00\n", hour, (hour+1)%24)
	}
	if last, ok := stats.LastSessionDate.Get(); ok {
		fmt.Fprintf(out, "Last session:       %s\n", last)
	}
	fmt.Fprintln(out)

	days := a.Statistics.DailyRange(from, to)
	fmt.Fprintf(out, "%s to %s\n", from.Format("Jan 2"), to.Format("Jan 2, 2006"))
	if len(days) == 0 {
		fmt.Fprintln(out, "  no sessions")
		return nil
	}
	for _, day := range days {
		fmt.Fprintf(out, "  %s  %2d focus  %8s  %d interrupted",
			day.Date, day.FocusSessions, formatSeconds(day.TotalFocusTime), day.InterruptedSessions)
		if len(day.Tasks) > 0 {
			fmt.Fprintf(out, "  [%s]", strings.Join(day.Tasks, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func formatSeconds(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return d.String()
	}
	h, m := int(d.Hours()), int(d.Minutes())%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
