package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/pitch"
	"github.com/swdee/go-tactical/team"
)

// Run is one analysis of a source file
type Run struct {
	ID        string
	Source    string
	Schema    string
	CreatedAt time.Time
}

// FrameRecord is one team's analysis result for one frame
type FrameRecord struct {
	RunID      string
	Frame      int
	Team       team.Team
	Formation  string
	Confidence float64
	Snapshot   metrics.Snapshot
	// SkipReason is set when the frame could not be analysed
	SkipReason string
}

// CreateRun inserts a new run with a generated id
func (db *DB) CreateRun(source, schema string) (Run, error) {

	r := Run{
		ID:        uuid.NewString(),
		Source:    source,
		Schema:    schema,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := db.conn.Exec(`
		INSERT INTO runs(id, source, schema_name, created_at)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.Source, r.Schema, r.CreatedAt.Format(time.RFC3339),
	)

	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	return r, nil
}

// ListRuns returns all runs, newest first
func (db *DB) ListRuns() ([]Run, error) {

	rows, err := db.conn.Query(`
		SELECT id, source, schema_name, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run

	for rows.Next() {
		var r Run
		var created string

		if err := rows.Scan(&r.ID, &r.Source, &r.Schema, &created); err != nil {
			return nil, err
		}

		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("run %s has invalid created_at %q: %w", r.ID, created, err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

// InsertFrame inserts or replaces a single frame record
func (db *DB) InsertFrame(rec FrameRecord) error {
	return db.InsertFrames([]FrameRecord{rec})
}

// InsertFrames bulk inserts frame records in a transaction
func (db *DB) InsertFrames(recs []FrameRecord) error {

	tx, err := db.conn.Begin()

	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO frames(
			run_id, frame, team, formation, confidence, valid, num_players,
			compactness, pressure_height, offensive_width, defensive_depth,
			stretch_index, centroid_x, centroid_y, skip_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		s := r.Snapshot

		_, err := stmt.Exec(
			r.RunID, r.Frame, r.Team.String(), r.Formation, r.Confidence,
			boolInt(s.Valid), s.NumPlayers,
			s.Compactness, s.PressureHeight, s.OffensiveWidth, s.DefensiveDepth,
			s.StretchIndex, s.Centroid.X, s.Centroid.Y, r.SkipReason,
		)

		if err != nil {
			return fmt.Errorf("insert frame %d %s: %w", r.Frame, r.Team, err)
		}
	}

	return tx.Commit()
}

// Frames returns a team's frame records for a run in frame order
func (db *DB) Frames(runID string, t team.Team) ([]FrameRecord, error) {

	rows, err := db.conn.Query(`
		SELECT frame, formation, confidence, valid, num_players,
			compactness, pressure_height, offensive_width, defensive_depth,
			stretch_index, centroid_x, centroid_y, skip_reason
		FROM frames
		WHERE run_id = ? AND team = ?
		ORDER BY frame`, runID, t.String())

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FrameRecord

	for rows.Next() {
		r := FrameRecord{RunID: runID, Team: t}
		var valid int
		var cx, cy float64

		err := rows.Scan(&r.Frame, &r.Formation, &r.Confidence, &valid,
			&r.Snapshot.NumPlayers, &r.Snapshot.Compactness,
			&r.Snapshot.PressureHeight, &r.Snapshot.OffensiveWidth,
			&r.Snapshot.DefensiveDepth, &r.Snapshot.StretchIndex,
			&cx, &cy, &r.SkipReason)

		if err != nil {
			return nil, err
		}

		r.Snapshot.Valid = valid != 0
		r.Snapshot.Centroid = pitch.Point{X: cx, Y: cy}

		out = append(out, r)
	}

	return out, rows.Err()
}

// FormationCounts returns how many frames each formation was detected in
// for a team, excluding frames without a formation
func (db *DB) FormationCounts(runID string, t team.Team) (map[string]int, error) {

	rows, err := db.conn.Query(`
		SELECT formation, COUNT(1)
		FROM frames
		WHERE run_id = ? AND team = ? AND formation NOT IN ('', 'N/A')
		GROUP BY formation`, runID, t.String())

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)

	for rows.Next() {
		var label string
		var n int

		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}

		out[label] = n
	}

	return out, rows.Err()
}

// DeleteRun removes a run and its frames
func (db *DB) DeleteRun(runID string) error {

	res, err := db.conn.Exec("DELETE FROM runs WHERE id = ?", runID)

	if err != nil {
		return err
	}

	n, err := res.RowsAffected()

	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("run %s: %w", runID, sql.ErrNoRows)
	}

	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
