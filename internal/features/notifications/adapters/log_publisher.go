package adapters

import (
	"context"

	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/features/notifications/domain"

	"go.uber.org/zap"
)

// LogPublisher writes notifications to the application log. It is used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.Named("notifications")}
}

// Publish implements ports.Publisher.
func (p *LogPublisher) Publish(_ context.Context, msg domain.Message) error {
	p.log.Info("Notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("order_id", msg.OrderID),
		zap.String("phone", msg.Phone),
		zap.String("email", msg.Email),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// Close implements ports.Publisher.
func (p *LogPublisher) Close() error { return nil }
