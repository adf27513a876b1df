package adapters

import (
	"context"
	"database/sql"
	"errors"

	"shop-checkout/internal/core/apperr"
)

// RoutingSettingsKey is the settings row holding the delivery and payment routing blob.
const RoutingSettingsKey = "delivery_payment_routing"

// PostgresSettingsStore implements ports.SettingsStore.
type PostgresSettingsStore struct {
	db *sql.DB
}

// NewPostgresSettingsStore creates a new PostgresSettingsStore.
func NewPostgresSettingsStore(db *sql.DB) *PostgresSettingsStore {
	return &PostgresSettingsStore{db: db}
}

// GetRoutingSettings implements ports.SettingsStore.
func (s *PostgresSettingsStore) GetRoutingSettings(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, RoutingSettingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.PersistenceErr("query routing settings", err)
	}
	return value, nil
}
