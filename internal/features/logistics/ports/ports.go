package ports

import (
	"context"
	"time"

	"shop-checkout/internal/features/logistics/domain"
)

// MapSessionService defines the primary port for the courier store picker flow.
type MapSessionService interface {
	StartSession(ctx context.Context, subType, returnURL string) (*domain.MapForm, error)
	HandleCallback(ctx context.Context, fields map[string]string) (string, error)
	Consume(ctx context.Context, token string) (*domain.Session, error)
	StoreList(ctx context.Context, subType string) ([]domain.Store, error)
}

// SessionRepository defines the secondary port for store selection sessions.
type SessionRepository interface {
	// SweepExpired deletes sessions created before cutoff.
	SweepExpired(ctx context.Context, cutoff time.Time) (int64, error)
	Create(ctx context.Context, session *domain.Session) error
	// AttachStore records the courier's store choice. Returns domain.ErrSessionNotFound for an unknown token.
	AttachStore(ctx context.Context, token string, store domain.Store) (*domain.Session, error)
	// Consume returns a session with a selected store and deletes it in the same step.
	// A session still waiting for its callback is returned with an empty store and kept.
	Consume(ctx context.Context, token string) (*domain.Session, error)
}

// CourierMapGateway defines the secondary port for the courier's hosted store picker.
type CourierMapGateway interface {
	// BuildMapForm returns the signed form that opens the picker for the session token.
	BuildMapForm(token string, subType domain.SubType, replyURL string) (*domain.MapForm, error)
	// ParseCallback reads and verifies the courier's callback fields.
	ParseCallback(fields map[string]string) (*domain.Callback, error)
}

// StoreDirectory defines the secondary port for courier store listings.
type StoreDirectory interface {
	GetStoreList(ctx context.Context, subType domain.SubType) ([]domain.Store, error)
}
