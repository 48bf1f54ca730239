package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/founder-playbook/internal/domain"
)

type ProgressRepo interface {
	Get(ctx context.Context, sessionID string) ([]domain.ChecklistProgress, error)
	// Save replaces the completed item list for one checklist.
	Save(ctx context.Context, sessionID string, checklistID int64, completed []string) error
	Reset(ctx context.Context, sessionID string, checklistID int64) error
}

type ProgressRepoImpl struct{ store }

func NewProgressRepo(pool *pgxpool.Pool, timeout time.Duration) *ProgressRepoImpl {
	return &ProgressRepoImpl{newStore(pool, timeout)}
}

func (r *ProgressRepoImpl) Get(ctx context.Context, sessionID string) ([]domain.ChecklistProgress, error) {
	const q = `SELECT checklist_id, completed_items, updated_at FROM checklist_progress
  WHERE session_id=$1 ORDER BY checklist_id`
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ChecklistProgress{}
	for rows.Next() {
		var p domain.ChecklistProgress
		if err := rows.Scan(&p.ChecklistID, &p.CompletedItems, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProgressRepoImpl) Save(ctx context.Context, sessionID string, checklistID int64, completed []string) error {
	const q = `INSERT INTO checklist_progress (session_id, checklist_id, completed_items, updated_at)
  VALUES ($1,$2,$3,now())
  ON CONFLICT (session_id, checklist_id) DO UPDATE SET
    completed_items = EXCLUDED.completed_items,
    updated_at = now()`
	if completed == nil {
		completed = []string{}
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, sessionID, checklistID, completed)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *ProgressRepoImpl) Reset(ctx context.Context, sessionID string, checklistID int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	_, err := r.pool.Exec(ctx, `DELETE FROM checklist_progress WHERE session_id=$1 AND checklist_id=$2`, sessionID, checklistID)
	return err
}
