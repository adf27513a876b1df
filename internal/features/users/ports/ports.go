package ports

import (
	"context"

	"shop-checkout/internal/features/users/domain"
)

// UserDirectory defines the secondary port for user records.
type UserDirectory interface {
	// GetUser returns domain.ErrUserNotFound when no record exists.
	GetUser(ctx context.Context, externalID string) (*domain.User, error)
	// FindBlacklistedByPhone returns the first blacklisted user with the phone, or nil.
	FindBlacklistedByPhone(ctx context.Context, phone string) (*domain.User, error)
	// SaveDeliveryDefaults replaces the saved checkout defaults of a user.
	SaveDeliveryDefaults(ctx context.Context, externalID string, defaults domain.DeliveryDefaults) error
}
