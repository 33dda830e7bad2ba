package engine

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/talgya/autociv/internal/automation"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/persistence"
)

// MaxRecentEvents bounds the events a Simulation keeps in memory.
const MaxRecentEvents = 500

// Recorder persists what each turn produced. *persistence.DB implements it.
type Recorder interface {
	RecordDecisions(runID string, decisions []automation.Decision) error
	RecordSummaries(summaries []persistence.FactionSummary) error
	RecordEvents(runID string, events []game.Event, names map[game.FactionID]string) error
	FinishTurn(runID string, turn int) error
}

// Simulation ties the world to the automation and the journal.
type Simulation struct {
	World        *game.World
	Orchestrator *automation.Orchestrator
	Recorder     Recorder // nil keeps everything in memory
	RunID        string

	Events    []game.Event                 // Recent events, oldest first
	Summaries []persistence.FactionSummary // Standings after the last turn
	Decisions int                          // Decisions made so far

	pending automation.Memory
	log     zerolog.Logger
}

// NewSimulation wires orch to journal into the simulation.
func NewSimulation(w *game.World, orch *automation.Orchestrator, rec Recorder, runID string) *Simulation {
	s := &Simulation{
		World:        w,
		Orchestrator: orch,
		Recorder:     rec,
		RunID:        runID,
		log:          log.With().Str("run", runID).Logger(),
	}
	orch.Journal = &s.pending
	return s
}

// PlayTurn automates every faction, ends the world turn and records the
// outcome. It matches TurnFunc.
func (s *Simulation) PlayTurn(turn int) error {
	w := s.World
	for _, f := range w.Factions() {
		s.Orchestrator.PlayTurn(w, f)
	}
	played := w.Turn
	w.EndTurn()

	events := w.DrainEvents()
	s.remember(events)
	s.Summaries = Summarize(w, s.RunID, played)
	decisions := s.pending.Decisions
	s.Decisions += len(decisions)

	if s.Recorder != nil {
		if err := s.record(decisions, events, played); err != nil {
			return err
		}
	}
	s.pending.Decisions = s.pending.Decisions[:0]

	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Category]++
	}
	s.log.Info().
		Int("turn", turn).
		Int("world_turn", w.Turn).
		Int("decisions", len(decisions)).
		Int("cities", len(w.Cities())).
		Int("units", len(w.Units())).
		Int("events_city", counts["city"]).
		Int("events_war", counts["war"]).
		Int("events_combat", counts["combat"]).
		Int("events_religion", counts["religion"]).
		Msg("Turn report")

	for _, e := range events {
		if e.Category == "war" || e.Category == "city" {
			s.log.Info().Str("category", e.Category).Msg(e.Description)
		}
	}
	return nil
}

func (s *Simulation) record(decisions []automation.Decision, events []game.Event, turn int) error {
	if err := s.Recorder.RecordDecisions(s.RunID, decisions); err != nil {
		return fmt.Errorf("record decisions: %w", err)
	}
	if err := s.Recorder.RecordSummaries(s.Summaries); err != nil {
		return fmt.Errorf("record summaries: %w", err)
	}
	if err := s.Recorder.RecordEvents(s.RunID, events, factionNames(s.World)); err != nil {
		return fmt.Errorf("record events: %w", err)
	}
	if err := s.Recorder.FinishTurn(s.RunID, turn); err != nil {
		return fmt.Errorf("finish turn: %w", err)
	}
	return nil
}

// remember appends events, dropping the oldest past MaxRecentEvents.
func (s *Simulation) remember(events []game.Event) {
	s.Events = append(s.Events, events...)
	if len(s.Events) > MaxRecentEvents {
		s.Events = s.Events[len(s.Events)-MaxRecentEvents:]
	}
}

func factionNames(w *game.World) map[game.FactionID]string {
	names := make(map[game.FactionID]string, len(w.Factions()))
	for _, f := range w.Factions() {
		names[f.ID] = f.Name
	}
	return names
}

// Summarize reports every non-barbarian faction's standing.
func Summarize(w *game.World, runID string, turn int) []persistence.FactionSummary {
	var out []persistence.FactionSummary
	for _, f := range w.Factions() {
		if f.Barbarian {
			continue
		}
		cities := w.CitiesOf(f.ID)
		pop := 0
		for _, c := range cities {
			pop += c.Population
		}
		wars := 0
		for _, other := range w.Factions() {
			if !other.Barbarian && f.AtWarWith(other) {
				wars++
			}
		}
		out = append(out, persistence.FactionSummary{
			RunID:      runID,
			Turn:       turn,
			Faction:    f.Name,
			Cities:     len(cities),
			Units:      len(w.UnitsOf(f.ID)),
			Population: pop,
			Techs:      len(f.Techs),
			Gold:       f.Gold,
			Science:    f.Stats.Science,
			Culture:    f.Stats.Culture,
			Faith:      f.Faith,
			Happiness:  f.Happiness,
			Military:   float64(automation.CombatPower(w, f)),
			Wars:       wars,
		})
	}
	return out
}
