package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/model"
)

var (
	exportOutput    string
	exportClipboard bool
	exportSettings  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions, statistics and settings as JSON",
	Long: `Export the session history, statistics and settings as a JSON document.

Writes to stdout unless --output or --clipboard is given.

Examples:
  focustimer export -o backup.json
  focustimer export --clipboard`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the session history with an exported document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy the document to the clipboard")
	exportCmd.Flags().BoolVar(&exportSettings, "settings", true, "Include settings")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	data := a.Data.Export(exportSettings)
	document, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	switch {
	case exportClipboard:
		if err := clipboard.WriteAll(string(document)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d sessions to the clipboard\n", len(data.Sessions))
	case exportOutput != "":
		path := exportOutput
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if err := os.WriteFile(path, document, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d sessions to %s\n", len(data.Sessions), path)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), string(document))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var data model.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	a, err := openApp(cmd.Context(), app.Options{SkipTimer: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Data.Import(cmd.Context(), data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sessions exported %s\n", len(data.Sessions), data.ExportDate.Local().Format(time.RFC1123))
	return nil
}
