package service

import (
	"context"
	"sync"
	"time"

	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/features/notifications/domain"
	"shop-checkout/internal/features/notifications/ports"
	ordersdomain "shop-checkout/internal/features/orders/domain"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single publish.
const DefaultTimeout = 10 * time.Second

// Notifier formats order events and publishes them on a background goroutine.
// Failures are logged and never reach the caller.
type Notifier struct {
	publisher ports.Publisher
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewNotifier creates a new Notifier.
func NewNotifier(publisher ports.Publisher, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{
		publisher: publisher,
		timeout:   timeout,
		now:       time.Now,
	}
}

// OrderConfirmed implements orders ports.Notifier.
func (n *Notifier) OrderConfirmed(ctx context.Context, order *ordersdomain.Order) {
	n.dispatch(ctx, domain.OrderConfirmation(order, n.now()))
}

// OrderShipped implements orders ports.Notifier.
func (n *Notifier) OrderShipped(ctx context.Context, order *ordersdomain.Order) {
	n.dispatch(ctx, domain.ShipmentNotice(order, n.now()))
}

func (n *Notifier) dispatch(ctx context.Context, msg domain.Message) {
	// The request context ends with the response, so the publish gets its own deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()

		if err := n.publisher.Publish(ctx, msg); err != nil {
			logger.Get().Warn("Failed to send notification",
				zap.String("kind", string(msg.Kind)),
				zap.String("order_id", msg.OrderID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// Close waits for in-flight notifications and closes the publisher.
func (n *Notifier) Close() error {
	n.Wait()
	return n.publisher.Close()
}
