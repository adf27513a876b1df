package ports

import "context"

// SettingsStore defines the secondary port for the stored routing settings blob.
type SettingsStore interface {
	// GetRoutingSettings returns the raw blob, or nil when nothing has been saved.
	GetRoutingSettings(ctx context.Context) ([]byte, error)
}
