// Package engine runs the turn loop: a clock that fires turn handlers and
// the Simulation that plays every faction each turn.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// TurnFunc handles one turn. An error stops the engine.
type TurnFunc func(turn int) error

// Engine drives the simulation forward one turn at a time.
type Engine struct {
	Turn     int           // Turns completed
	MaxTurns int           // Stop after this many turns; 0 runs until cancelled
	Interval time.Duration // Pause between turns; 0 runs flat out

	// Handlers run in registration order each turn.
	OnTurn []TurnFunc
}

// NewEngine creates an engine that stops after maxTurns.
func NewEngine(maxTurns int) *Engine {
	return &Engine{MaxTurns: maxTurns}
}

// AddTurnHandler registers fn to run every turn.
func (e *Engine) AddTurnHandler(fn TurnFunc) {
	e.OnTurn = append(e.OnTurn, fn)
}

// Done reports whether the engine has played all its turns.
func (e *Engine) Done() bool {
	return e.MaxTurns > 0 && e.Turn >= e.MaxTurns
}

// Step plays one turn.
func (e *Engine) Step() error {
	turn := e.Turn + 1
	for _, fn := range e.OnTurn {
		if err := fn(turn); err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
	}
	e.Turn = turn
	return nil
}

// Run plays turns until MaxTurns is reached, a handler fails or ctx is
// cancelled. Cancellation returns ctx.Err().
func (e *Engine) Run(ctx context.Context) error {
	log.Info().Int("turn", e.Turn).Int("max_turns", e.MaxTurns).Msg("Engine started")
	defer func() { log.Info().Int("turn", e.Turn).Msg("Engine stopped") }()

	var tick <-chan time.Time
	if e.Interval > 0 {
		ticker := time.NewTicker(e.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for !e.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Step(); err != nil {
			return err
		}
		if tick != nil && !e.Done() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
	return nil
}
