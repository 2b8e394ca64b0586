package moods

import (
	"context"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
)

// Repository stores mood entries created on this device.
type Repository interface {
	Insert(ctx context.Context, e *models.MoodEntry) error
	ListByUser(ctx context.Context, userID string) ([]models.MoodEntry, error)
	CountUnsynced(ctx context.Context, userID string) (int, error)
	MarkSynced(ctx context.Context, id string) error
}
