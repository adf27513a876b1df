package ports

import (
	"context"

	"shop-checkout/internal/features/payments/domain"
)

// WalletGateway defines the secondary port for the online wallet.
type WalletGateway interface {
	// RequestPayment reserves a payment and returns the URL the customer is sent to.
	RequestPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error)
	// ConfirmPayment captures a payment after the customer approved it.
	ConfirmPayment(ctx context.Context, tx domain.TransactionID, amount int64, currency string) (*domain.Confirmation, error)
	// VoidPayment cancels an authorized but uncaptured payment.
	VoidPayment(ctx context.Context, tx domain.TransactionID) error
	// RefundPayment refunds a captured payment. amount <= 0 refunds in full.
	RefundPayment(ctx context.Context, tx domain.TransactionID, amount int64) (*domain.Refund, error)
}
