package port

import "context"

// KeyValueStore is the raw string key/value storage behind the preference store,
// the equivalent of browser local storage. Implementations return errors; the
// prefstore guard turns them into no-ops.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ExternalChangeNotifier reports keys changed by another writer (another tab,
// another process) sharing the same storage. Writes made through the notifier's
// own store are never reported back to it.
type ExternalChangeNotifier interface {
	// OnExternalChange registers a callback receiving the changed keys.
	// Returns a function to unregister the callback.
	OnExternalChange(callback func(keys []string)) func()
}
