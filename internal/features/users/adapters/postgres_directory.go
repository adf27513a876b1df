package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/auth"
	"shop-checkout/internal/features/users/domain"
)

// PostgresDirectory implements ports.UserDirectory and auth.AccountLookup.
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory creates a new PostgresDirectory.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

const selectUser = `SELECT external_id, display_name, role, phone, blacklisted, blacklist_reason, delivery_defaults
	FROM users`

type userRow struct {
	ExternalID      string
	DisplayName     sql.NullString
	Role            sql.NullString
	Phone           sql.NullString
	Blacklisted     bool
	BlacklistReason sql.NullString
	Defaults        []byte
}

func (r *userRow) scan(s interface{ Scan(...any) error }) error {
	return s.Scan(
		&r.ExternalID,
		&r.DisplayName,
		&r.Role,
		&r.Phone,
		&r.Blacklisted,
		&r.BlacklistReason,
		&r.Defaults,
	)
}

func (r *userRow) toDomain() (*domain.User, error) {
	u := &domain.User{
		ExternalID:      r.ExternalID,
		DisplayName:     r.DisplayName.String,
		Role:            r.Role.String,
		Phone:           r.Phone.String,
		Blacklisted:     r.Blacklisted,
		BlacklistReason: r.BlacklistReason.String,
	}
	if len(r.Defaults) > 0 {
		if err := json.Unmarshal(r.Defaults, &u.Defaults); err != nil {
			return nil, fmt.Errorf("unmarshal delivery defaults: %w", err)
		}
	}
	return u, nil
}

// GetUser implements ports.UserDirectory.
func (d *PostgresDirectory) GetUser(ctx context.Context, externalID string) (*domain.User, error) {
	var row userRow
	err := row.scan(d.db.QueryRowContext(ctx, selectUser+` WHERE external_id = $1`, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.PersistenceErr("query user", err)
	}
	return row.toDomain()
}

// FindBlacklistedByPhone implements ports.UserDirectory.
func (d *PostgresDirectory) FindBlacklistedByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var row userRow
	err := row.scan(d.db.QueryRowContext(ctx,
		selectUser+` WHERE regexp_replace(phone, '[\s()-]', '', 'g') = $1 AND blacklisted = TRUE
		 ORDER BY external_id LIMIT 1`, domain.NormalizePhone(phone)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.PersistenceErr("query blacklist by phone", err)
	}
	return row.toDomain()
}

// SaveDeliveryDefaults implements ports.UserDirectory.
func (d *PostgresDirectory) SaveDeliveryDefaults(ctx context.Context, externalID string, defaults domain.DeliveryDefaults) error {
	payload, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal delivery defaults: %w", err)
	}

	res, err := d.db.ExecContext(ctx,
		`UPDATE users SET delivery_defaults = $1, updated_at = NOW() WHERE external_id = $2`,
		payload, externalID)
	if err != nil {
		return apperr.PersistenceErr("save delivery defaults", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// LookupAccount implements auth.AccountLookup.
func (d *PostgresDirectory) LookupAccount(ctx context.Context, externalID string) (auth.Account, bool, error) {
	u, err := d.GetUser(ctx, externalID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return auth.Account{}, false, nil
	}
	if err != nil {
		return auth.Account{}, false, err
	}
	return auth.Account{
		ExternalID:  u.ExternalID,
		Role:        auth.Role(u.Role),
		Blacklisted: u.Blacklisted,
	}, true, nil
}
