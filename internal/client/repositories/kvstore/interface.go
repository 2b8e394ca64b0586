package kvstore

import "context"

// Repository is the namespaced key-value store backing session state,
// migration markers, and device preferences.
type Repository interface {
	// Get returns the value for key, or ("", false, nil) when absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// ListPrefix returns every key/value pair whose key starts with prefix.
	ListPrefix(ctx context.Context, prefix string) (map[string]string, error)

	// DeletePrefix removes every key starting with prefix and returns how
	// many rows were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
