package ports

import (
	"context"
	"time"

	"shop-checkout/internal/core/auth"
	"shop-checkout/internal/features/orders/domain"
	paymentsdomain "shop-checkout/internal/features/payments/domain"
	pricingdomain "shop-checkout/internal/features/pricing/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"
)

// OrderRepository defines the secondary port for order persistence.
type OrderRepository interface {
	// Create inserts a new order. A taken id yields domain.ErrDuplicateOrderID.
	Create(ctx context.Context, order *domain.Order) error
	// Get returns domain.ErrOrderNotFound when no order has the id.
	Get(ctx context.Context, id string) (*domain.Order, error)
	// LatestCreatedAt returns the creation time of the newest order by the customer identity,
	// or by phone when identity is empty. found is false when there is none.
	LatestCreatedAt(ctx context.Context, identity, phone string) (latest time.Time, found bool, err error)
	// Update writes the mutable status fields, provided the stored statuses and tracking number
	// still equal expected. Otherwise it returns domain.ErrConcurrentUpdate.
	Update(ctx context.Context, order *domain.Order, expected domain.StatusSnapshot) error
	// UpdatePayment applies change provided the stored payment status still equals change.From.
	// Otherwise it returns domain.ErrConcurrentUpdate.
	UpdatePayment(ctx context.Context, id string, change domain.PaymentChange) error
	// List returns up to limit orders, newest first.
	List(ctx context.Context, limit int) ([]domain.Order, error)
}

// Notifier sends customer messages. Implementations must not block the caller.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order *domain.Order)
	OrderShipped(ctx context.Context, order *domain.Order)
}

// Quoter prices a cart.
type Quoter interface {
	Quote(ctx context.Context, lines []pricingdomain.CartLine, now time.Time) (*pricingdomain.Quote, error)
}

// RoutingConfigSource returns the current delivery/payment routing configuration.
type RoutingConfigSource interface {
	Current(ctx context.Context) (*routingdomain.Config, error)
}

// OrderService defines the primary port used by the HTTP handler.
type OrderService interface {
	// Submit validates, prices and persists a submission. customer is the authenticated
	// external id, empty when anonymous.
	Submit(ctx context.Context, customer string, sub domain.Submission) (*domain.Receipt, error)
	// Get returns the order when viewer owns it or is an administrator.
	Get(ctx context.Context, id string, viewer *auth.Identity) (*domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, id string, tx paymentsdomain.TransactionID) (*domain.Order, error)
	CancelPayment(ctx context.Context, id string) (*domain.Order, error)
	// Refund refunds a paid wallet order. amount <= 0 refunds in full.
	Refund(ctx context.Context, id string, amount int64) (*domain.Order, error)
}
