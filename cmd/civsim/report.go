package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/autociv/internal/api"
	"github.com/talgya/autociv/internal/automation"
	"github.com/talgya/autociv/internal/engine"
	"github.com/talgya/autociv/internal/logger"
	"github.com/talgya/autociv/internal/persistence"
)

func runReport(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var run persistence.Run
	if reportRun != "" {
		run, err = db.GetRun(reportRun)
	} else {
		run, err = db.LatestRun()
	}
	if err != nil {
		return err
	}

	titleColor.Printf("\nRun %s\n", run.ID)
	infoColor.Printf("Seed %d, radius %d, %d factions, %d turns, started %s\n\n",
		run.Seed, run.Radius, run.Factions, run.Turns, humanize.Time(run.Started()))

	summaries, err := db.Summaries(run.ID, -1)
	if err != nil {
		return fmt.Errorf("summaries: %w", err)
	}
	titleColor.Println("Standings")
	printSummaries(summaries)

	counts, err := db.DecisionCounts(run.ID)
	if err != nil {
		return fmt.Errorf("decision counts: %w", err)
	}
	kinds := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		kinds = append(kinds, k)
		total += n
	}
	sort.Strings(kinds)
	titleColor.Printf("\nDecisions (%s)\n", humanize.Comma(int64(total)))
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Kind", "Count"}),
	)
	for _, k := range kinds {
		table.Append([]string{k, humanize.Comma(int64(counts[k]))})
	}
	table.Render()

	decisions, err := db.RecentDecisions(run.ID, reportLimit)
	if err != nil {
		return fmt.Errorf("recent decisions: %w", err)
	}
	titleColor.Println("\nRecent decisions")
	table = tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Turn", "Faction", "Kind", "Subject", "Choice", "Score"}),
	)
	for _, d := range decisions {
		table.Append([]string{
			fmt.Sprintf("%d", d.Turn),
			d.Faction,
			d.Kind,
			d.Subject,
			d.Choice,
			fmt.Sprintf("%.2f", d.Score),
		})
	}
	table.Render()

	events, err := db.RecentEvents(run.ID, reportLimit)
	if err != nil {
		return fmt.Errorf("recent events: %w", err)
	}
	titleColor.Println("\nRecent events")
	for _, e := range events {
		fmt.Printf("  • [%d] %-8s %s\n", e.Turn, e.Category, e.Description)
	}
	return nil
}

func runThreat(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)

	w, err := newGame()
	if err != nil {
		return err
	}
	if threatTurns > 0 {
		orch := &automation.Orchestrator{Seed: cfg.Seed, Log: logger.Get()}
		sim := engine.NewSimulation(w, orch, nil, "threat")
		eng := engine.NewEngine(threatTurns)
		eng.AddTurnHandler(sim.PlayTurn)
		if err := eng.Run(cmd.Context()); err != nil {
			return err
		}
	}

	var names []string
	header := []string{"Assessor", "Power"}
	factions := w.Factions()
	for _, f := range factions {
		names = append(names, f.Name)
	}
	header = append(header, names...)

	titleColor.Printf("\nThreat matrix after %d turns (seed %d)\n", threatTurns, cfg.Seed)
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, a := range factions {
		row := []string{a.Name, fmt.Sprintf("%d", automation.CombatPower(w, a))}
		for _, b := range factions {
			cell := "-"
			if a.ID != b.ID {
				cell = automation.Threat(w, a, b).String()
			}
			row = append(row, cell)
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	color.New(color.FgCyan, color.Bold).Printf("Serving %s on %s\n", cfg.DBPath, serveAddr)
	srv := &api.Server{DB: db, Addr: serveAddr}
	return srv.ListenAndServe()
}
