package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Show where data is stored and how much",
	RunE:  runStorage,
}

func init() {
	rootCmd.AddCommand(storageCmd)
}

func runStorage(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if a.Ephemeral {
		fmt.Fprintf(out, "Storage:  in memory (%s), nothing is kept after exit\n", a.Config.DBDriver)
	} else {
		fmt.Fprintf(out, "Storage:  %s (%s)\n", a.Config.DBPath, a.Config.DBDriver)
	}
	if a.Config.ConfigFile != "" {
		fmt.Fprintf(out, "Config:   %s\n", a.Config.ConfigFile)
	}

	entries, err := a.Store.Entries(cmd.Context())
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No data stored yet.")
		return nil
	}

	total := 0
	fmt.Fprintln(out)
	for _, entry := range entries {
		total += entry.Size
		fmt.Fprintf(out, "  %-16s %10s  updated %s\n", entry.Key, humanize.Bytes(uint64(entry.Size)), humanize.Time(entry.UpdatedAt))
	}
	fmt.Fprintf(out, "  %-16s %10s\n", "total", humanize.Bytes(uint64(total)))
	return nil
}
