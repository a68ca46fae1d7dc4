package storage

import "github.com/google/uuid"

// KV is the persistent key-value contract the task store and session
// layer are written against.
// Implementations: SQLiteKV
type KV interface {
	// Get returns the serialized value for key. ok is false when the key
	// is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores the serialized value under key, replacing any prior value.
	Set(key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases the underlying store.
	Close() error
}

// Keys used by the application.
const (
	// SessionKey holds the serialized session user.
	SessionKey = "zentask_user"
)

// TasksKey returns the per-user key holding that user's task collection.
func TasksKey(userID string) string {
	return "tasks_" + userID
}

// GenerateID creates a new UUID for a task, sub-task, or user.
func GenerateID() string {
	return uuid.New().String()
}
