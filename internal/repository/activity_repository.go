package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/washroom-dashboard/internal/repository/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Schema is applied by pkg/database on open.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at DESC)`,
}

type ActivityRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewActivityRepository(db *sql.DB, logger *zap.Logger) *ActivityRepository {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRepository{db: db, logger: logger, now: time.Now}
}

// Record stores a, assigning an id and timestamp when they are unset.
func (r *ActivityRepository) Record(ctx context.Context, a models.Activity) (models.Activity, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	const query = `
		INSERT INTO activities (id, kind, subject, detail, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, string(a.Kind), a.Subject, a.Detail, a.Success, a.CreatedAt.UnixNano())
	if err != nil {
		return models.Activity{}, fmt.Errorf("insert activity: %w", err)
	}

	r.logger.Debug("activity recorded", zap.String("id", a.ID), zap.String("kind", string(a.Kind)))
	return a, nil
}

// Recent returns up to limit activities, newest first. A non-positive limit
// means DefaultListLimit; anything above MaxListLimit is capped.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	limit = clampLimit(limit)

	const query = `
		SELECT id, kind, subject, detail, success, created_at
		FROM activities
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent activities: %w", err)
	}
	defer rows.Close()

	results := []models.Activity{}
	for rows.Next() {
		var (
			a       models.Activity
			kind    string
			created int64
		)
		if err := rows.Scan(&a.ID, &kind, &a.Subject, &a.Detail, &a.Success, &created); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		a.Kind = models.ActivityKind(kind)
		a.CreatedAt = time.Unix(0, created).UTC()
		results = append(results, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return results, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

func (r *ActivityRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
