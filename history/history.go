// Package history keeps a log of past solves in a local sqlite
// database, so the shell can show what was attempted and how hard
// each fill was.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/amaranta/puzzle"
)

const schema = `
CREATE TABLE IF NOT EXISTS solves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	signature INTEGER NOT NULL,
	structure_path TEXT NOT NULL,
	words_path TEXT NOT NULL,
	solved INTEGER NOT NULL,
	nodes INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	assignment TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS solves_signature ON solves(signature);
`

type Store struct {
	db *sql.DB
}

// Result is one solve attempt. Assignment is the rendered assignment
// string, empty when the puzzle was unsatisfiable.
type Result struct {
	Signature     uint64
	StructurePath string
	WordsPath     string
	Solved        bool
	Nodes         uint64
	Duration      time.Duration
	Assignment    string
	CreatedAt     time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("opened-history-db")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Signature fingerprints a puzzle: the structure layout plus the
// word pool. Two solves of the same files hash identically.
func Signature(cw *puzzle.Crossword) uint64 {
	h := xxhash.New()
	rowbuf := make([]byte, cw.Width)
	for i := 0; i < cw.Height; i++ {
		for j := 0; j < cw.Width; j++ {
			if cw.Open(i, j) {
				rowbuf[j] = '_'
			} else {
				rowbuf[j] = '#'
			}
		}
		h.Write(rowbuf)
		h.Write([]byte{'\n'})
	}
	for _, w := range cw.Words() {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}

func (s *Store) Record(ctx context.Context, r Result) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solves
		(signature, structure_path, words_path, solved, nodes, duration_ms, assignment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(r.Signature), r.StructurePath, r.WordsPath, boolToInt(r.Solved),
		int64(r.Nodes), r.Duration.Milliseconds(), r.Assignment, r.CreatedAt.Unix())
	return err
}

// List returns the most recent n solves, newest first.
func (s *Store) List(ctx context.Context, n int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT signature, structure_path, words_path, solved, nodes, duration_ms, assignment, created_at
		FROM solves ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var sig, nodes, durationMs, createdAt int64
		var solved int
		if err := rows.Scan(&sig, &r.StructurePath, &r.WordsPath, &solved,
			&nodes, &durationMs, &r.Assignment, &createdAt); err != nil {
			return nil, err
		}
		r.Signature = uint64(sig)
		r.Solved = solved != 0
		r.Nodes = uint64(nodes)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = time.Unix(createdAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
