// Package persistence is the SQLite decision journal: runs, the decisions
// automation made in them, per-turn faction summaries and world events.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/talgya/autociv/internal/automation"
	"github.com/talgya/autociv/internal/game"
)

// ErrNoRuns is returned by LatestRun on an empty journal.
var ErrNoRuns = errors.New("journal has no runs")

// DB wraps a SQLite connection holding the journal.
type DB struct {
	conn *sqlx.DB
}

// Run is one simulation run.
type Run struct {
	ID        string `db:"id" json:"id"`
	Seed      int64  `db:"seed" json:"seed"`
	Radius    int    `db:"radius" json:"radius"`
	Factions  int    `db:"factions" json:"factions"`
	Doctrine  string `db:"doctrine" json:"doctrine"`
	StartedAt int64  `db:"started_at" json:"started_at"` // unix seconds
	Turns     int    `db:"turns" json:"turns"`           // last completed turn
}

// Started returns StartedAt as a time.
func (r Run) Started() time.Time { return time.Unix(r.StartedAt, 0).UTC() }

// FactionSummary is a faction's standing at the end of a turn.
type FactionSummary struct {
	RunID      string  `db:"run_id" json:"run_id"`
	Turn       int     `db:"turn" json:"turn"`
	Faction    string  `db:"faction" json:"faction"`
	Cities     int     `db:"cities" json:"cities"`
	Units      int     `db:"units" json:"units"`
	Population int     `db:"population" json:"population"`
	Techs      int     `db:"techs" json:"techs"`
	Gold       float64 `db:"gold" json:"gold"`
	Science    float64 `db:"science" json:"science"`
	Culture    float64 `db:"culture" json:"culture"`
	Faith      float64 `db:"faith" json:"faith"`
	Happiness  int     `db:"happiness" json:"happiness"`
	Military   float64 `db:"military" json:"military"` // combat power
	Wars       int     `db:"wars" json:"wars"`
}

// DecisionRow is a journaled decision.
type DecisionRow struct {
	RunID   string  `db:"run_id" json:"run_id"`
	Turn    int     `db:"turn" json:"turn"`
	Faction string  `db:"faction" json:"faction"`
	Kind    string  `db:"kind" json:"kind"`
	Subject string  `db:"subject" json:"subject"`
	Choice  string  `db:"choice" json:"choice"`
	Score   float64 `db:"score" json:"score"`
}

// EventRow is a journaled world event.
type EventRow struct {
	RunID       string `db:"run_id" json:"run_id"`
	Turn        int    `db:"turn" json:"turn"`
	Faction     string `db:"faction" json:"faction"`
	Category    string `db:"category" json:"category"`
	Description string `db:"description" json:"description"`
}

// Open opens or creates a journal at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; sqlite serializes anyway.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		radius INTEGER NOT NULL,
		factions INTEGER NOT NULL,
		doctrine TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		turns INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		turn INTEGER NOT NULL,
		faction TEXT NOT NULL,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		choice TEXT NOT NULL,
		score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS summaries (
		run_id TEXT NOT NULL REFERENCES runs(id),
		turn INTEGER NOT NULL,
		faction TEXT NOT NULL,
		cities INTEGER NOT NULL,
		units INTEGER NOT NULL,
		population INTEGER NOT NULL,
		techs INTEGER NOT NULL,
		gold REAL NOT NULL,
		science REAL NOT NULL,
		culture REAL NOT NULL,
		faith REAL NOT NULL,
		happiness INTEGER NOT NULL,
		military REAL NOT NULL,
		wars INTEGER NOT NULL,
		PRIMARY KEY (run_id, turn, faction)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		turn INTEGER NOT NULL,
		faction TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_run ON decisions(run_id, turn);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun stores a new run, filling in its id and start time when unset.
func (db *DB) BeginRun(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt == 0 {
		r.StartedAt = time.Now().Unix()
	}
	_, err := db.conn.NamedExec(`INSERT INTO runs
		(id, seed, radius, factions, doctrine, started_at, turns)
		VALUES (:id, :seed, :radius, :factions, :doctrine, :started_at, :turns)`, r)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	log.Info().Str("run", r.ID).Int64("seed", r.Seed).Msg("Run started")
	return nil
}

// FinishTurn records the last completed turn of a run.
func (db *DB) FinishTurn(runID string, turn int) error {
	_, err := db.conn.Exec("UPDATE runs SET turns = ? WHERE id = ?", turn, runID)
	return err
}

// RecordDecisions appends decisions to a run.
func (db *DB) RecordDecisions(runID string, decisions []automation.Decision) error {
	if len(decisions) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO decisions
		(run_id, turn, faction, kind, subject, choice, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range decisions {
		if _, err := stmt.Exec(runID, d.Turn, d.Faction, d.Kind, d.Subject, d.Choice, d.Score); err != nil {
			return fmt.Errorf("insert decision %s/%s: %w", d.Kind, d.Subject, err)
		}
	}

	return tx.Commit()
}

// RecordSummaries writes end-of-turn summaries, replacing any for the same
// run, turn and faction.
func (db *DB) RecordSummaries(summaries []FactionSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range summaries {
		_, err := tx.NamedExec(`INSERT OR REPLACE INTO summaries
			(run_id, turn, faction, cities, units, population, techs,
			 gold, science, culture, faith, happiness, military, wars)
			VALUES (:run_id, :turn, :faction, :cities, :units, :population, :techs,
			 :gold, :science, :culture, :faith, :happiness, :military, :wars)`, s)
		if err != nil {
			return fmt.Errorf("insert summary %s turn %d: %w", s.Faction, s.Turn, err)
		}
	}

	return tx.Commit()
}

// RecordEvents appends world events to a run. names maps faction ids to
// display names.
func (db *DB) RecordEvents(runID string, events []game.Event, names map[game.FactionID]string) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, turn, faction, category, description) VALUES (?, ?, ?, ?, ?)",
			runID, e.Turn, names[e.Faction], e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// LatestRun returns the most recently started run.
func (db *DB) LatestRun() (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNoRuns
	}
	return r, err
}

// GetRun returns the run with the given id.
func (db *DB) GetRun(id string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return r, fmt.Errorf("run %s: %w", id, err)
	}
	return r, nil
}

// RecentDecisions returns up to limit decisions of a run, newest first.
func (db *DB) RecentDecisions(runID string, limit int) ([]DecisionRow, error) {
	var rows []DecisionRow
	err := db.conn.Select(&rows,
		`SELECT run_id, turn, faction, kind, subject, choice, score
		 FROM decisions WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		runID, limit,
	)
	return rows, err
}

// DecisionCounts returns how many decisions of each kind a run made.
func (db *DB) DecisionCounts(runID string) (map[string]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"n"`
	}
	err := db.conn.Select(&rows,
		"SELECT kind, COUNT(*) AS n FROM decisions WHERE run_id = ? GROUP BY kind ORDER BY kind",
		runID,
	)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Kind] = r.Count
	}
	return counts, nil
}

// Summaries returns the faction summaries of a run at turn, by faction name.
// A negative turn selects the last recorded turn.
func (db *DB) Summaries(runID string, turn int) ([]FactionSummary, error) {
	if turn < 0 {
		var last sql.NullInt64
		if err := db.conn.Get(&last, "SELECT MAX(turn) FROM summaries WHERE run_id = ?", runID); err != nil {
			return nil, err
		}
		if !last.Valid {
			return nil, nil
		}
		turn = int(last.Int64)
	}
	var rows []FactionSummary
	err := db.conn.Select(&rows,
		"SELECT * FROM summaries WHERE run_id = ? AND turn = ? ORDER BY faction",
		runID, turn,
	)
	return rows, err
}

// RecentEvents returns up to limit events of a run, newest first.
func (db *DB) RecentEvents(runID string, limit int) ([]EventRow, error) {
	var rows []EventRow
	err := db.conn.Select(&rows,
		`SELECT run_id, turn, faction, category, description
		 FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		runID, limit,
	)
	return rows, err
}
