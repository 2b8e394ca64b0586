// Package queue implements the pending-operation FIFO on sqlite. The
// AUTOINCREMENT primary key guarantees enqueue order survives restarts.
package queue

import (
	"context"
	"fmt"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Enqueue appends op to the queue and fills in its assigned id.
func (r *SQLiteRepository) Enqueue(ctx context.Context, op *models.PendingOperation) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_operations (action, payload, enqueued_at)
		VALUES (?, ?, ?)
	`, op.Action, []byte(op.Payload), op.EnqueuedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to enqueue operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get queue id: %w", err)
	}
	op.ID = id
	return nil
}

// ListFIFO returns all pending operations in enqueue order.
func (r *SQLiteRepository) ListFIFO(ctx context.Context) ([]models.PendingOperation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, payload, enqueued_at
		FROM pending_operations ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending operations: %w", err)
	}
	defer rows.Close()

	var result []models.PendingOperation
	for rows.Next() {
		var op models.PendingOperation
		var payload []byte
		if err := rows.Scan(&op.ID, &op.Action, &payload, &op.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending operation: %w", err)
		}
		op.Payload = payload
		result = append(result, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_operations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove pending operation %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_operations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending operations: %w", err)
	}
	return n, nil
}
