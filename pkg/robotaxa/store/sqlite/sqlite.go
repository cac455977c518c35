// Package sqlite persists classification runs in a SQLite database via
// modernc.org/sqlite (no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/robotaxa/robotaxa/pkg/robotaxa/internalerr"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database with WAL mode enabled
// and the run schema initialized.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	taxonomy_version TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS robots (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	name TEXT,
	url TEXT,
	description TEXT,
	category TEXT,
	manufacturer TEXT,
	applications TEXT,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS robot_scores (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	level TEXT NOT NULL,
	category TEXT NOT NULL,
	score REAL NOT NULL,
	PRIMARY KEY(run_id, position, level, category),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS robot_clusters (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	cluster INTEGER NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS report_counts (
	run_id TEXT NOT NULL,
	level TEXT NOT NULL,
	category TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, level, category),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores a run and its records in one transaction, replacing any
// prior content under the same run id.
func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run, records []store.Record) error {
	if run.ID == "" {
		return fmt.Errorf("sqlite: run id required: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, taxonomy_version)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	taxonomy_version=excluded.taxonomy_version;
`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.TaxonomyVersion)
	if err != nil {
		return err
	}

	for _, tbl := range []string{"robots", "robot_scores", "robot_clusters"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+tbl+" WHERE run_id=?", run.ID); err != nil {
			return err
		}
	}

	robotStmt, err := tx.PrepareContext(ctx, `
INSERT INTO robots (run_id, position, name, url, description, category, manufacturer, applications)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer robotStmt.Close()

	scoreStmt, err := tx.PrepareContext(ctx, `
INSERT INTO robot_scores (run_id, position, level, category, score)
VALUES (?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer scoreStmt.Close()

	clusterStmt, err := tx.PrepareContext(ctx, `
INSERT INTO robot_clusters (run_id, position, cluster)
VALUES (?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer clusterStmt.Close()

	for _, rec := range records {
		apps, err := json.Marshal(rec.Applications)
		if err != nil {
			return err
		}
		if _, err := robotStmt.ExecContext(ctx, run.ID, rec.Position, rec.Name, rec.URL,
			rec.Description, rec.Category, rec.Manufacturer, string(apps)); err != nil {
			return err
		}
		for level, cats := range rec.Scores {
			for category, score := range cats {
				if _, err := scoreStmt.ExecContext(ctx, run.ID, rec.Position, level, category, score); err != nil {
					return err
				}
			}
		}
		if rec.Cluster != nil {
			if _, err := clusterStmt.ExecContext(ctx, run.ID, rec.Position, *rec.Cluster); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetRun loads a run and its records in insertion order.
func (s *sqliteStore) GetRun(ctx context.Context, runID string) (store.Run, []store.Record, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return store.Run{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT position, name, url, description, category, manufacturer, applications
FROM robots
WHERE run_id=?
ORDER BY position;
`, runID)
	if err != nil {
		return store.Run{}, nil, err
	}
	defer rows.Close()

	var records []store.Record
	byPosition := make(map[int]*store.Record)
	for rows.Next() {
		var rec store.Record
		var apps string
		if err := rows.Scan(&rec.Position, &rec.Name, &rec.URL, &rec.Description,
			&rec.Category, &rec.Manufacturer, &apps); err != nil {
			return store.Run{}, nil, err
		}
		if apps != "" {
			if err := json.Unmarshal([]byte(apps), &rec.Applications); err != nil {
				return store.Run{}, nil, err
			}
		}
		rec.Scores = make(map[string]map[string]float64)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return store.Run{}, nil, err
	}
	for i := range records {
		byPosition[records[i].Position] = &records[i]
	}

	if err := s.loadScores(ctx, runID, byPosition); err != nil {
		return store.Run{}, nil, err
	}
	if err := s.loadClusters(ctx, runID, byPosition); err != nil {
		return store.Run{}, nil, err
	}

	return run, records, nil
}

// LatestRun returns the most recently created run.
func (s *sqliteStore) LatestRun(ctx context.Context) (store.Run, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1;
`).Scan(&id)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	run, err := s.loadRun(ctx, id)
	if err != nil {
		return store.Run{}, false, err
	}
	return run, true, nil
}

// SaveReport stores the distribution report for a run.
func (s *sqliteStore) SaveReport(ctx context.Context, runID string, counts map[string]map[string]int) error {
	if _, err := s.loadRun(ctx, runID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_counts WHERE run_id=?`, runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO report_counts (run_id, level, category, count)
VALUES (?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for level, cats := range counts {
		for category, n := range cats {
			if _, err := stmt.ExecContext(ctx, runID, level, category, n); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetReport loads the distribution report for a run.
func (s *sqliteStore) GetReport(ctx context.Context, runID string) (map[string]map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT level, category, count FROM report_counts WHERE run_id=?;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]map[string]int)
	for rows.Next() {
		var level, category string
		var n int
		if err := rows.Scan(&level, &category, &n); err != nil {
			return nil, err
		}
		if counts[level] == nil {
			counts[level] = make(map[string]int)
		}
		counts[level][category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("sqlite: report for run %q: %w", runID, internalerr.ErrNotFound)
	}
	return counts, nil
}

func (s *sqliteStore) loadRun(ctx context.Context, runID string) (store.Run, error) {
	var run store.Run
	var created string
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, taxonomy_version FROM runs WHERE id=?;
`, runID).Scan(&run.ID, &created, &run.TaxonomyVersion)
	if err == sql.ErrNoRows {
		return store.Run{}, fmt.Errorf("sqlite: run %q: %w", runID, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
		run.CreatedAt = parsed
	}
	return run, nil
}

func (s *sqliteStore) loadScores(ctx context.Context, runID string, byPosition map[int]*store.Record) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT position, level, category, score FROM robot_scores WHERE run_id=?;
`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var position int
		var level, category string
		var score float64
		if err := rows.Scan(&position, &level, &category, &score); err != nil {
			return err
		}
		rec, ok := byPosition[position]
		if !ok {
			continue
		}
		if rec.Scores[level] == nil {
			rec.Scores[level] = make(map[string]float64)
		}
		rec.Scores[level][category] = score
	}
	return rows.Err()
}

func (s *sqliteStore) loadClusters(ctx context.Context, runID string, byPosition map[int]*store.Record) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT position, cluster FROM robot_clusters WHERE run_id=?;
`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var position, cluster int
		if err := rows.Scan(&position, &cluster); err != nil {
			return err
		}
		if rec, ok := byPosition[position]; ok {
			id := cluster
			rec.Cluster = &id
		}
	}
	return rows.Err()
}
