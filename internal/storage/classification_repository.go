package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/landmark-finder/internal/model"
)

// ErrNotFound is returned when a classification call doesn't exist.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("classification call not found")

// StrategyCount is one row of the per-strategy breakdown. Strategy is empty
// for calls that produced no usable classification.
type StrategyCount struct {
	Strategy string `db:"strategy" json:"strategy"`
	Count    int64  `db:"count" json:"count"`
}

// ClassificationRepository defines the interface for the classification audit log.
// Only call metadata is stored; image results never are.
type ClassificationRepository interface {
	Create(ctx context.Context, call *model.ClassificationCall) error
	GetByID(ctx context.Context, id int64) (*model.ClassificationCall, error)
	Count(ctx context.Context) (int64, error)
	CountByStrategy(ctx context.Context) ([]StrategyCount, error)
	ListRecent(ctx context.Context, limit int) ([]model.ClassificationCall, error)
}

// sqliteClassificationRepository is the SQLite implementation.
// The struct is unexported; only the interface is public.
type sqliteClassificationRepository struct {
	db *sqlx.DB
}

// NewClassificationRepository creates a new SQLite-backed ClassificationRepository.
func NewClassificationRepository(db *sqlx.DB) ClassificationRepository {
	return &sqliteClassificationRepository{db: db}
}

func (r *sqliteClassificationRepository) Create(ctx context.Context, call *model.ClassificationCall) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO classification_calls (prompt, provider, model, strategy, success, duration_ms)
		VALUES (:prompt, :provider, :model, :strategy, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating classification call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteClassificationRepository) GetByID(ctx context.Context, id int64) (*model.ClassificationCall, error) {
	var call model.ClassificationCall
	err := r.db.GetContext(ctx, &call, "SELECT * FROM classification_calls WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting classification call %d: %w", id, err)
	}
	return &call, nil
}

func (r *sqliteClassificationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM classification_calls")
	return count, err
}

func (r *sqliteClassificationRepository) CountByStrategy(ctx context.Context) ([]StrategyCount, error) {
	var counts []StrategyCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT COALESCE(strategy, '') AS strategy, COUNT(*) AS count
		FROM classification_calls
		GROUP BY COALESCE(strategy, '')
		ORDER BY strategy ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("counting classification calls by strategy: %w", err)
	}
	return counts, nil
}

func (r *sqliteClassificationRepository) ListRecent(ctx context.Context, limit int) ([]model.ClassificationCall, error) {
	var calls []model.ClassificationCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM classification_calls ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing classification calls: %w", err)
	}
	return calls, nil
}
