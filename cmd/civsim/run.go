package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/autociv/internal/automation"
	"github.com/talgya/autociv/internal/engine"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/logger"
	"github.com/talgya/autociv/internal/persistence"
	"github.com/talgya/autociv/internal/rules"
	"github.com/talgya/autociv/internal/scenario"
)

// loadDoctrine reads the configured rule file or falls back to the defaults.
func loadDoctrine(path string) (*rules.Engine, error) {
	if path == "" {
		return rules.NewEngine(rules.DefaultRules())
	}
	return rules.LoadEngine(path)
}

// newGame builds the starting world from the current configuration.
func newGame() (*game.World, error) {
	sc := scenario.DefaultConfig()
	sc.Gen.Seed = cfg.Seed
	sc.Gen.Radius = cfg.MapRadius
	sc.Factions = cfg.Factions
	sc.Camps = camps
	sc.HumanFaction = humanIndex
	return scenario.NewGame(sc)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	titleColor.Println("\n╭────────────────────────╮")
	titleColor.Println("│  civsim                │")
	titleColor.Println("│  Automated Empires     │")
	titleColor.Println("╰────────────────────────╯")

	doctrine, err := loadDoctrine(cfg.Doctrine)
	if err != nil {
		return fmt.Errorf("load doctrine: %w", err)
	}

	w, err := newGame()
	if err != nil {
		return err
	}
	infoColor.Printf("Map radius %d, %s tiles, %d factions, seed %d\n",
		cfg.MapRadius, humanize.Comma(int64(w.Map.HexCount())), cfg.Factions, cfg.Seed)

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	run := &persistence.Run{
		Seed:     cfg.Seed,
		Radius:   cfg.MapRadius,
		Factions: cfg.Factions,
		Doctrine: cfg.Doctrine,
	}
	if err := db.BeginRun(run); err != nil {
		return err
	}
	if err := db.SaveMeta("last_run", run.ID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	orch := &automation.Orchestrator{
		Seed:     cfg.Seed,
		Doctrine: doctrine,
		Strict:   cfg.Strict,
		Log:      logger.Get(),
	}
	sim := engine.NewSimulation(w, orch, db, run.ID)
	eng := engine.NewEngine(cfg.Turns)
	eng.AddTurnHandler(sim.PlayTurn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err = eng.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		color.Yellow("Interrupted after %d turns", eng.Turn)
	case err != nil:
		return err
	}

	successColor.Printf("\n✓ Played %d turns in %s: %s decisions\n",
		eng.Turn, time.Since(start).Round(time.Millisecond), humanize.Comma(int64(sim.Decisions)))
	fmt.Printf("Run %s\n\n", run.ID)
	printSummaries(sim.Summaries)
	return nil
}

// printSummaries renders faction standings as a table.
func printSummaries(summaries []persistence.FactionSummary) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Faction", "Cities", "Pop", "Units", "Techs", "Gold", "Science", "Culture", "Faith", "Happy", "Military", "Wars"}),
	)
	for _, s := range summaries {
		row := []string{
			s.Faction,
			fmt.Sprintf("%d", s.Cities),
			fmt.Sprintf("%d", s.Population),
			fmt.Sprintf("%d", s.Units),
			fmt.Sprintf("%d", s.Techs),
			humanize.Comma(int64(s.Gold)),
			fmt.Sprintf("%.0f", s.Science),
			fmt.Sprintf("%.0f", s.Culture),
			fmt.Sprintf("%.0f", s.Faith),
			fmt.Sprintf("%d", s.Happiness),
			fmt.Sprintf("%.0f", s.Military),
			fmt.Sprintf("%d", s.Wars),
		}
		table.Append(row)
	}
	table.Render()
}
