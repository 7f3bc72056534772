package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"go.uber.org/zap"
)

// SQLiteStore implements Store on a local SQLite database.
//
// Schema:
//
//	holidays(date TEXT PRIMARY KEY, type TEXT, description TEXT, year INTEGER)
//
// type is either "holiday" or "workday"; date is ISO "YYYY-MM-DD".
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single connection so ":memory:" databases are shared between calls
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		type TEXT,
		description TEXT,
		year INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays(year);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertDesignations writes all rows in one transaction
func (s *SQLiteStore) UpsertDesignations(ctx context.Context, designations []Designation) error {
	if len(designations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO holidays (date, type, description, year) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range designations {
		if _, err := stmt.ExecContext(ctx, dateutil.Key(d.Date), d.Kind, d.Name, d.Year); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", dateutil.Key(d.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit designations: %w", err)
	}

	s.logger.Debug("Designations stored", zap.Int("rows", len(designations)))
	return nil
}

// LoadYear returns the holiday and workday rows of the year
func (s *SQLiteStore) LoadYear(ctx context.Context, year int) ([]Designation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, type, COALESCE(description, '')
		FROM holidays
		WHERE year = ?
		AND (type = 'holiday' OR type = 'workday')
		ORDER BY date`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query year %d: %w", year, err)
	}
	defer rows.Close()

	var result []Designation
	for rows.Next() {
		var dateStr, kind, name string
		if err := rows.Scan(&dateStr, &kind, &name); err != nil {
			return nil, fmt.Errorf("failed to scan designation: %w", err)
		}

		// older rows may lack the year prefix
		if len(strings.Split(dateStr, "-")) == 2 {
			dateStr = fmt.Sprintf("%d-%s", year, dateStr)
		}
		date, err := time.ParseInLocation(dateutil.DateLayout, dateStr, time.Local)
		if err != nil {
			s.logger.Warn("Skipping invalid stored date",
				zap.String("date", dateStr),
				zap.Error(err))
			continue
		}

		result = append(result, Designation{
			Date: date,
			Kind: kind,
			Name: name,
			Year: year,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read designations: %w", err)
	}

	return result, nil
}
