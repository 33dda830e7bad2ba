// Command civsim runs automated factions on a generated map and reports on
// the decisions they made.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/talgya/autociv/internal/config"
	"github.com/talgya/autociv/internal/logger"
)

var (
	cfg *config.Config

	camps       int
	humanIndex  int
	reportRun   string
	reportLimit int
	threatTurns int
	serveAddr   string
)

func main() {
	logger.Init()
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:   "civsim",
		Short: "Automated empire simulation",
		Long: `civsim generates a hex map, seeds it with computer-controlled
factions and lets the automation play them turn by turn. Every decision
is written to a SQLite journal that the report command reads back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Play a game and journal every decision",
		RunE:  runSimulation,
	}
	runCmd.Flags().Int64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "Map and decision seed")
	runCmd.Flags().IntVarP(&cfg.Turns, "turns", "t", cfg.Turns, "Turns to play")
	runCmd.Flags().IntVarP(&cfg.MapRadius, "radius", "r", cfg.MapRadius, "Map radius in hexes")
	runCmd.Flags().IntVarP(&cfg.Factions, "factions", "f", cfg.Factions, "Automated factions")
	runCmd.Flags().StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "Journal database path")
	runCmd.Flags().StringVar(&cfg.Doctrine, "doctrine", cfg.Doctrine, "JSON doctrine rule file")
	runCmd.Flags().BoolVar(&cfg.Strict, "strict", cfg.Strict, "Panic on automation invariant violations")
	runCmd.Flags().IntVar(&camps, "camps", 4, "Barbarian encampments")
	runCmd.Flags().IntVar(&humanIndex, "human", -1, "Index of a faction to leave unautomated")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show standings and recent decisions from the journal",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "Journal database path")
	reportCmd.Flags().StringVar(&reportRun, "run", "", "Run id (default: latest run)")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 15, "Recent decisions and events to show")

	threatCmd := &cobra.Command{
		Use:   "threat",
		Short: "Print the threat every faction sees from every other",
		RunE:  runThreat,
	}
	threatCmd.Flags().Int64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "Map and decision seed")
	threatCmd.Flags().IntVarP(&cfg.MapRadius, "radius", "r", cfg.MapRadius, "Map radius in hexes")
	threatCmd.Flags().IntVarP(&cfg.Factions, "factions", "f", cfg.Factions, "Automated factions")
	threatCmd.Flags().IntVarP(&threatTurns, "turns", "t", 0, "Turns to play before assessing")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal as a read-only JSON API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&cfg.DBPath, "db", "d", cfg.DBPath, "Journal database path")
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Listen address")

	rootCmd.AddCommand(runCmd, reportCmd, threatCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
