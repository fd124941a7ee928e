package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change timer settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsShowCmd.RunE(cmd, args)
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
		if err != nil {
			return err
		}
		defer a.Close()
		return printSettings(cmd, a)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change one or more settings",
	Long: `Change settings by JSON field name. Either every change is applied or none is.

Examples:
  focustimer settings set focusDuration=50 shortBreakDuration=10
  focustimer settings set autoStartBreaks=true notificationSound=chime`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.Settings.Reset(cmd.Context()); err != nil {
			return err
		}
		return printSettings(cmd, a)
	},
}

var settingsPresetCmd = &cobra.Command{
	Use:   "preset <id>",
	Short: "Apply a timer preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.Settings.ApplyPreset(cmd.Context(), args[0]); err != nil {
			return err
		}
		return printSettings(cmd, a)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List timer presets",
	RunE:  runPresets,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(presetsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsPresetCmd)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	patch, err := parseAssignments(args)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Settings.Update(cmd.Context(), patch); err != nil {
		return err
	}
	return printSettings(cmd, a)
}

// parseAssignments turns key=value pairs into a patch. Values that parse as
// integers or booleans are sent as such, everything else as a string.
func parseAssignments(args []string) (model.SettingsPatch, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return model.SettingsPatch{}, fmt.Errorf("expected key=value, got %q", arg)
		}
		if n, err := strconv.Atoi(value); err == nil {
			fields[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			fields[key] = b
		} else {
			fields[key] = value
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return model.SettingsPatch{}, err
	}
	var patch model.SettingsPatch
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		return model.SettingsPatch{}, fmt.Errorf("invalid setting: %w", err)
	}
	return patch, nil
}

func printSettings(cmd *cobra.Command, a *app.App) error {
	document, err := a.Settings.Export()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(document))
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.Settings.Current()
	out := cmd.OutOrStdout()
	for _, preset := range a.Settings.Presets() {
		marker := " "
		if preset.FocusDuration == current.FocusDuration &&
			preset.ShortBreakDuration == current.ShortBreakDuration &&
			preset.LongBreakDuration == current.LongBreakDuration &&
			preset.LongBreakInterval == current.LongBreakInterval {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-10s %-20s %3dm focus  %2dm short  %2dm long  every %d\n",
			marker, preset.ID, preset.Name,
			preset.FocusDuration, preset.ShortBreakDuration, preset.LongBreakDuration, preset.LongBreakInterval)
	}
	return nil
}
