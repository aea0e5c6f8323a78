package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrryf/thesisweb/internal/db"
)

// ErrNotFound is returned when no build matches.
var ErrNotFound = errors.New("history: build not found")

// Store provides access to the build log.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a build. If b.ID is empty a UUID is generated; a zero
// timestamp becomes now.
func (s *Store) Record(ctx context.Context, b Build) (Build, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}
	b.Timestamp = b.Timestamp.UTC().Truncate(time.Second)

	cited, err := json.Marshal(b.Cited)
	if err != nil {
		return Build{}, fmt.Errorf("marshalling cited references: %w", err)
	}

	var archive sql.NullString
	if b.Archive != "" {
		archive = sql.NullString{String: b.Archive, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO builds (
			id, timestamp, fingerprint, output_dir, pages, words,
			glossary_terms, markers, cited, duration_ms, archive
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.Timestamp.Format(time.DateTime),
		b.Fingerprint,
		b.OutputDir,
		b.Pages,
		b.Words,
		b.GlossaryTerms,
		b.Markers,
		string(cited),
		b.Duration.Milliseconds(),
		archive,
	)
	if err != nil {
		return Build{}, fmt.Errorf("inserting build: %w", err)
	}
	return b, nil
}

const selectBuild = `SELECT id, timestamp, fingerprint, output_dir, pages, words,
	glossary_terms, markers, cited, duration_ms, archive FROM builds`

// Get retrieves a single build.
func (s *Store) Get(ctx context.Context, id string) (*Build, error) {
	row := s.db.QueryRowContext(ctx, selectBuild+" WHERE id = ?", id)
	b, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// Latest returns the most recent build.
func (s *Store) Latest(ctx context.Context) (*Build, error) {
	builds, err := s.List(ctx, Filter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		return nil, ErrNotFound
	}
	return &builds[0], nil
}

// Filter controls which builds List returns.
type Filter struct {
	Fingerprint string
	Since       *time.Time
	Limit       int
	Offset      int
}

// List returns builds matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Build, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Fingerprint != "" {
		clauses = append(clauses, "fingerprint = ?")
		args = append(args, filter.Fingerprint)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := selectBuild
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

// Prune keeps the newest keep builds and deletes the rest. It returns the
// number of deleted rows.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM builds WHERE id NOT IN (
			SELECT id FROM builds ORDER BY timestamp DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning builds: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Build, error) {
	var (
		b          Build
		ts         string
		citedJSON  string
		durationMS int64
		archive    sql.NullString
	)

	err := sc.Scan(
		&b.ID, &ts, &b.Fingerprint, &b.OutputDir, &b.Pages, &b.Words,
		&b.GlossaryTerms, &b.Markers, &citedJSON, &durationMS, &archive,
	)
	if err != nil {
		return nil, err
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		b.Timestamp = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		b.Timestamp = t
	}
	b.Duration = time.Duration(durationMS) * time.Millisecond
	if archive.Valid {
		b.Archive = archive.String
	}
	if err := json.Unmarshal([]byte(citedJSON), &b.Cited); err != nil {
		b.Cited = nil
	}

	return &b, nil
}
