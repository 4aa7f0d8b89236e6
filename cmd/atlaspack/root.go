package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	format  string

	// Atlas settings flags, shared by every subcommand
	presetName string
	pageWidth  int
	pageHeight int
	padding    int
	sortOrder  string
	maxPages   int
	dxfScale   float64
)

// Output streams, swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "atlaspack",
	Short: "Pack sprites into texture atlas pages",
	Long: `atlaspack reads sprite sizes from CSV or Excel sheets, DXF drawings,
image folders or saved .tatlas projects, packs them into fixed-size
atlas pages and writes the layout as PDF, Excel, JSON, PNG or DXF.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	defaults := model.DefaultSettings()

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.StringVar(&format, "format", "text", "Report format: text or json")

	pf.StringVar(&presetName, "preset", "", "Start from a named preset (e.g. \"Desktop 2048\")")
	pf.IntVar(&pageWidth, "page-width", defaults.PageWidth, "Page width in px")
	pf.IntVar(&pageHeight, "page-height", defaults.PageHeight, "Page height in px")
	pf.IntVar(&padding, "padding", defaults.Padding, "Gap kept right of and below every sprite, in px")
	pf.StringVar(&sortOrder, "sort", string(defaults.SortOrder), "Sort order: none, area, height, width, perimeter, max-side")
	pf.IntVar(&maxPages, "max-pages", defaults.MaxPages, "Page limit, 0 for unlimited")
	pf.Float64Var(&dxfScale, "dxf-scale", 1, "Drawing units to px for DXF input")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes engine logs to stderr at a level matching the flags.
func setupLogging(cmd *cobra.Command, args []string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
	level := logging.LevelWarn
	switch {
	case verbose:
		level = logging.LevelDebug
	case quiet:
		level = logging.LevelError
	}
	logging.Close()
	return logging.Init(logging.Config{Level: level, Format: "text"})
}

// printInfo prints an info message if not in quiet mode. In JSON mode it
// goes to stderr so stdout stays a single JSON document.
func printInfo(msg string, args ...interface{}) {
	if quiet {
		return
	}
	w := stdout
	if format == "json" {
		w = stderr
	}
	fmt.Fprintf(w, msg, args...)
}

// printError prints an error message
func printError(msg string, args ...interface{}) {
	fmt.Fprintf(stderr, "Error: "+msg, args...)
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
