package ports

import (
	"context"

	"shop-checkout/internal/features/notifications/domain"
)

// Publisher delivers formatted messages to the notification channel.
type Publisher interface {
	Publish(ctx context.Context, msg domain.Message) error
	Close() error
}
