package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/safemap/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// one writer; also keeps a :memory: database on a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL,
			severity_rank INTEGER NOT NULL,
			type TEXT NOT NULL,
			source TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			published_at TEXT NOT NULL DEFAULT '',
			url_to_image TEXT,
			affected_location TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);
		CREATE INDEX IF NOT EXISTS idx_alerts_severity_rank ON alerts(severity_rank);
		CREATE INDEX IF NOT EXISTS idx_alerts_type ON alerts(type);
	`

	_, err := s.db.Exec(schema)
	return err
}

const alertColumns = `id, title, description, severity, type, source, url, published_at, url_to_image, affected_location, created_at`

// Add inserts a; an alert with the same ID is left untouched.
func (s *SQLiteDB) Add(ctx context.Context, a *models.Alert) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO alerts (`+alertColumns+`, severity_rank)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, string(a.Severity), string(a.Type), a.Source,
		a.URL, a.PublishedAt, a.URLToImage, a.AffectedLocation, createdAt.UnixMilli(),
		a.Severity.Rank(),
	)
	if err != nil {
		return fmt.Errorf("error inserting alert %s: %w", a.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)

	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading alert %s: %w", id, err)
	}
	return &a, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM alerts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking alert %s: %w", id, err)
	}
	return true, nil
}

// ListAlerts returns matching alerts, newest first.
func (s *SQLiteDB) ListAlerts(ctx context.Context, opts Filter) ([]models.Alert, error) {
	var (
		where []string
		args  []any
	)

	if opts.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, opts.Since.UnixMilli())
	}
	if opts.Severity != nil {
		where = append(where, "severity = ?")
		args = append(args, string(*opts.Severity))
	}
	if opts.MinSeverity != nil {
		where = append(where, "severity_rank >= ?")
		args = append(args, opts.MinSeverity.Rank())
	}
	if opts.Type != nil {
		where = append(where, "type = ?")
		args = append(args, string(*opts.Type))
	}
	if opts.Location != "" {
		where = append(where, "affected_location = ? COLLATE NOCASE")
		args = append(args, opts.Location)
	}

	query := `SELECT ` + alertColumns + ` FROM alerts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, opts.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]models.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Prune deletes alerts ingested before olderThan.
func (s *SQLiteDB) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE created_at < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("error pruning alerts: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(r rowScanner) (models.Alert, error) {
	var (
		a          models.Alert
		severity   string
		alertType  string
		urlToImage sql.NullString
		createdAt  int64
	)

	err := r.Scan(&a.ID, &a.Title, &a.Description, &severity, &alertType, &a.Source,
		&a.URL, &a.PublishedAt, &urlToImage, &a.AffectedLocation, &createdAt)
	if err != nil {
		return models.Alert{}, err
	}

	a.Severity = models.AlertSeverity(severity)
	a.Type = models.AlertType(alertType)
	if urlToImage.Valid {
		img := urlToImage.String
		a.URLToImage = &img
	}
	a.CreatedAt = time.UnixMilli(createdAt)
	return a, nil
}
