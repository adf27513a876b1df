package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/features/logistics/domain"
)

// PostgresSessionRepository implements ports.SessionRepository.
type PostgresSessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db, now: time.Now}
}

type sessionRow struct {
	Token        string
	SubType      string
	StoreID      sql.NullString
	StoreName    sql.NullString
	StoreAddress sql.NullString
	ReturnURL    sql.NullString
	CreatedAt    time.Time
}

func (r *sessionRow) dest() []any {
	return []any{
		&r.Token,
		&r.SubType,
		&r.StoreID,
		&r.StoreName,
		&r.StoreAddress,
		&r.ReturnURL,
		&r.CreatedAt,
	}
}

func (r *sessionRow) toDomain() *domain.Session {
	return &domain.Session{
		Token:   r.Token,
		SubType: domain.SubType(r.SubType),
		Store: domain.Store{
			ID:      r.StoreID.String,
			Name:    r.StoreName.String,
			Address: r.StoreAddress.String,
		},
		ReturnURL: r.ReturnURL.String,
		CreatedAt: r.CreatedAt,
	}
}

// SweepExpired implements ports.SessionRepository.
func (r *PostgresSessionRepository) SweepExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM store_selection_sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, apperr.PersistenceErr("sweep store selection sessions", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Create implements ports.SessionRepository.
func (r *PostgresSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO store_selection_sessions (token, sub_type, return_url, created_at) VALUES ($1, $2, $3, $4)`,
		s.Token, string(s.SubType), nullString(s.ReturnURL), s.CreatedAt)
	if err != nil {
		return apperr.PersistenceErr("create store selection session", err)
	}
	return nil
}

// AttachStore implements ports.SessionRepository.
func (r *PostgresSessionRepository) AttachStore(ctx context.Context, token string, store domain.Store) (*domain.Session, error) {
	var row sessionRow
	err := r.db.QueryRowContext(ctx,
		`UPDATE store_selection_sessions SET store_id = $1, store_name = $2, store_address = $3
		 WHERE token = $4 AND created_at >= $5
		 RETURNING token, sub_type, store_id, store_name, store_address, return_url, created_at`,
		nullString(store.ID), store.Name, nullString(store.Address), token, r.cutoff()).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperr.PersistenceErr("attach store to session", err)
	}
	return row.toDomain(), nil
}

// Consume implements ports.SessionRepository.
func (r *PostgresSessionRepository) Consume(ctx context.Context, token string) (*domain.Session, error) {
	var row sessionRow
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM store_selection_sessions
		 WHERE token = $1 AND created_at >= $2 AND store_name IS NOT NULL AND store_name <> ''
		 RETURNING token, sub_type, store_id, store_name, store_address, return_url, created_at`,
		token, r.cutoff()).Scan(row.dest()...)
	if err == nil {
		return row.toDomain(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.PersistenceErr("consume store selection session", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT token, sub_type, store_id, store_name, store_address, return_url, created_at
		 FROM store_selection_sessions WHERE token = $1 AND created_at >= $2`,
		token, r.cutoff()).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperr.PersistenceErr("query store selection session", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresSessionRepository) cutoff() time.Time {
	return r.now().Add(-domain.SessionRetention)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
