package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/bryan-cox/launchledger/internal/model"
)

// Dialect selects placeholder style and DDL for a SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	return string(d)
}

const milestoneColumns = `id, user_id, phase, milestone_name, description, completed, completed_date, order_index`

// SQLMilestoneStore keeps milestones in the business_milestones table.
type SQLMilestoneStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLMilestoneStore opens dsn with the dialect's driver and creates the table if needed.
func OpenSQLMilestoneStore(ctx context.Context, dialect Dialect, dsn string) (*SQLMilestoneStore, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s milestone store: %w", dialect, err)
	}
	s := NewSQLMilestoneStore(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLMilestoneStore wraps an open database. Call Migrate before first use on a
// fresh database.
func NewSQLMilestoneStore(db *sql.DB, dialect Dialect) *SQLMilestoneStore {
	return &SQLMilestoneStore{db: db, dialect: dialect}
}

// Close closes the underlying database.
func (s *SQLMilestoneStore) Close() error {
	return s.db.Close()
}

// Migrate creates the milestone table.
func (s *SQLMilestoneStore) Migrate(ctx context.Context) error {
	timestampType := "DATETIME"
	if s.dialect == DialectPostgres {
		timestampType = "TIMESTAMPTZ"
	}
	query := `
	CREATE TABLE IF NOT EXISTS business_milestones (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		phase TEXT NOT NULL,
		milestone_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_date ` + timestampType + `,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at ` + timestampType + ` NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at ` + timestampType + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create business_milestones: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLMilestoneStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLMilestoneStore) List(ctx context.Context, userID string) ([]model.Milestone, error) {
	query := s.rebind(`SELECT ` + milestoneColumns + ` FROM business_milestones WHERE user_id = ? ORDER BY phase, order_index`)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var milestones []model.Milestone
	for rows.Next() {
		var (
			m           model.Milestone
			phase       string
			completedAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.UserID, &phase, &m.Name, &m.Description, &m.Completed, &completedAt, &m.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		m.Phase = model.Phase(phase)
		if completedAt.Valid {
			t := completedAt.Time
			m.CompletedAt = &t
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The table sorts phase names alphabetically; restore phase order.
	SortMilestones(milestones)
	return milestones, nil
}

func (s *SQLMilestoneStore) Update(ctx context.Context, id string, completed bool, completedAt *time.Time) error {
	query := s.rebind(`UPDATE business_milestones SET completed = ?, completed_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	var stamp sql.NullTime
	if completedAt != nil {
		stamp = sql.NullTime{Time: completedAt.UTC(), Valid: true}
	}
	res, err := s.db.ExecContext(ctx, query, completed, stamp, id)
	if err != nil {
		return fmt.Errorf("failed to update milestone %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update milestone %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("milestone %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLMilestoneStore) Insert(ctx context.Context, milestones []model.Milestone) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.rebind(`INSERT INTO business_milestones (` + milestoneColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, m := range milestones {
		var stamp sql.NullTime
		if m.CompletedAt != nil {
			stamp = sql.NullTime{Time: m.CompletedAt.UTC(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query, m.ID, m.UserID, string(m.Phase), m.Name, m.Description, m.Completed, stamp, m.OrderIndex); err != nil {
			return fmt.Errorf("failed to insert milestone %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit milestones: %w", err)
	}
	return nil
}
