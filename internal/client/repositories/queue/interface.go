package queue

import (
	"context"

	"github.com/Aalekh09/MoodlyApp/internal/client/models"
)

// Repository is the durable FIFO of pending remote operations. Order is
// defined by the store-assigned id; items are removed one at a time after a
// successful replay.
type Repository interface {
	Enqueue(ctx context.Context, op *models.PendingOperation) error
	ListFIFO(ctx context.Context) ([]models.PendingOperation, error)
	Remove(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
