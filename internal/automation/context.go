// Package automation is the non-player decision engine: tile and threat
// valuation, combat targeting, construction planning, belief scoring, the
// per-unit behavior controller and the per-faction turn orchestrator.
//
// Scoring functions are stateless and take the world explicitly. Anything
// that needs randomness, logging or a journal takes a *Context.
package automation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/rules"
)

// ErrInvariant marks a planner state that should be impossible.
var ErrInvariant = errors.New("automation invariant violated")

// Decision is one journaled choice of the engine.
type Decision struct {
	Turn    int     `json:"turn"`
	Faction string  `json:"faction"`
	Kind    string  `json:"kind"`    // "construction", "attack", "war", ...
	Subject string  `json:"subject"` // City or unit the decision is about
	Choice  string  `json:"choice"`
	Score   float64 `json:"score"`
}

// Journal receives decisions as they are made.
type Journal interface {
	Record(Decision)
}

// Memory is a Journal that keeps decisions in a slice.
type Memory struct {
	Decisions []Decision
}

// Record appends d.
func (m *Memory) Record(d Decision) {
	m.Decisions = append(m.Decisions, d)
}

// Context carries everything a faction's turn needs besides the world state.
type Context struct {
	World    *game.World
	Faction  *game.Faction
	Rng      *rand.Rand
	Log      zerolog.Logger
	Journal  Journal       // May be nil
	Doctrine *rules.Engine // Nil means the default rules
	Strict   bool          // Panic on invariant violations

	// Workers that found nothing to do this turn.
	idleWorkers map[game.UnitID]bool
}

// record journals a decision if a journal is attached.
func (ctx *Context) record(kind, subject, choice string, score float64) {
	if ctx.Journal == nil {
		return
	}
	ctx.Journal.Record(Decision{
		Turn:    ctx.World.Turn,
		Faction: ctx.Faction.Name,
		Kind:    kind,
		Subject: subject,
		Choice:  choice,
		Score:   score,
	})
}

// Invariant reports a planner state that should be impossible. It logs at
// error level and panics in strict mode.
func (ctx *Context) Invariant(msg string, fields map[string]any) {
	err := fmt.Errorf("%s: %w", msg, ErrInvariant)
	ctx.Log.Error().Err(err).Fields(fields).Msg("invariant")
	if ctx.Strict {
		panic(err)
	}
}
