package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	backend    string
	configFile string
	preset     string
	seed       int64
	frameRate  int
	addr       string
	count      int
	dt         float64
	dropX      float64
	fresh      bool
	csvOut     bool
	writePath  string
	theme      string
	runs       int
	drops      int
	svgOut     string
	jsonOut    string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main registers the commands and runs the terminal front end when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "seesaw",
		Short:        "drop weights on a pivoting plank",
		SilenceUsage: true,
		RunE:         runPlay,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory (default .seesaw)")
	pf.StringVar(&backend, "storage", "", "storage backend: json, sqlite or memory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.Int64Var(&seed, "seed", 0, "weight generator seed (0 picks one)")
	pf.IntVar(&frameRate, "fps", 0, "frame rate")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "run the seesaw in the terminal",
		RunE:  runPlay,
	}
	rootCmd.Flags().StringVar(&theme, "theme", "slate", "terminal theme")
	playCmd.Flags().StringVar(&theme, "theme", "slate", "terminal theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the seesaw in a window",
		RunE:  runGUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the seesaw over websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	dropCmd := &cobra.Command{
		Use:   "drop",
		Short: "drop weights headlessly and report the tilt",
		RunE:  runDrop,
	}
	dropCmd.Flags().IntVarP(&count, "count", "n", 10, "number of drops")
	dropCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "fixed timestep")
	dropCmd.Flags().Float64Var(&dropX, "x", 0, "drop offset from the pivot in px (random when unset)")
	dropCmd.Flags().BoolVar(&fresh, "fresh", false, "start from an empty plank")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "list the persisted resting items",
		RunE:  runShow,
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "clear the persisted plank",
		RunE:  runReset,
	}

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "print the landing journal",
		RunE:  runJournal,
	}
	journalCmd.Flags().BoolVar(&csvOut, "csv", false, "write CSV to stdout")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many random seesaws in parallel and summarize their tilt",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&runs, "runs", 100, "number of runs")
	ensembleCmd.Flags().IntVarP(&drops, "count", "n", 20, "drops per run")
	ensembleCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "fixed timestep")
	ensembleCmd.Flags().StringVar(&jsonOut, "json", "", "write the results to this JSON file")
	ensembleCmd.Flags().StringVar(&svgOut, "svg", "", "plot the first run's tilt to this SVG file")

	scriptCmd := &cobra.Command{
		Use:   "script <scenario.yaml>",
		Short: "replay a scripted drop sequence, or sweep a parameter across it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&fresh, "fresh", false, "start from an empty plank")
	scriptCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep (gravity, angle_scale, max_angle, tolerance, edge_margin)")
	scriptCmd.Flags().Float64Var(&sweepMin, "min", 1, "sweep start value")
	scriptCmd.Flags().Float64Var(&sweepMax, "max", 20, "sweep end value")
	scriptCmd.Flags().IntVar(&sweepSteps, "steps", 10, "sweep points")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export the persisted plank as SVG or JSON",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "SVG output path")
	exportCmd.Flags().StringVar(&jsonOut, "json", "", "JSON snapshot output path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  runPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  runConfig,
	}
	configCmd.Flags().StringVarP(&writePath, "write", "w", "", "also save it to this path")

	rootCmd.AddCommand(playCmd, guiCmd, serveCmd, dropCmd, scriptCmd, ensembleCmd, showCmd, exportCmd, resetCmd, journalCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
