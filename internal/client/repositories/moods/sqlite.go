// Package moods implements local persistence of mood entries on sqlite.
package moods

import (
	"context"
	"fmt"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
	"github.com/Aalekh09/MoodlyApp/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx), so inserts can join the same transaction as a queue append.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.MoodEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO moods (id, user_id, mood, note, score, created_at, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Mood, e.Note, e.Score, e.CreatedAt.UTC(), e.Synced)
	if err != nil {
		return fmt.Errorf("failed to insert mood entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, mood, note, score, created_at, synced
		FROM moods WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select mood entries: %w", err)
	}
	defer rows.Close()

	var result []models.MoodEntry
	for rows.Next() {
		var e models.MoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.Note, &e.Score, &e.CreatedAt, &e.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan mood row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE moods SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark mood entry synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM moods WHERE user_id = ? AND synced = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced moods: %w", err)
	}
	return n, nil
}
