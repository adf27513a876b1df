package domain

import "shop-checkout/internal/core/apperr"

var (
	ErrOrderNotFound       = apperr.New(apperr.NotFound, "OrderNotFound", "order not found")
	ErrTooFrequent         = apperr.New(apperr.Conflict, "TooFrequent", "an order was just submitted, please wait a minute before trying again")
	ErrDuplicateOrderID    = apperr.New(apperr.Conflict, "DuplicateOrderID", "order id already exists, please submit again")
	ErrConcurrentUpdate    = apperr.New(apperr.Conflict, "ConcurrentUpdate", "order was modified concurrently")
	ErrInvalidStatus       = apperr.New(apperr.Validation, "InvalidStatus", "unknown order status")
	ErrInvalidTransition   = apperr.New(apperr.Conflict, "InvalidTransition", "status transition is not allowed")
	ErrNotWalletOrder      = apperr.New(apperr.Validation, "NotWalletOrder", "order is not paid through the online wallet")
	ErrTransactionMismatch = apperr.New(apperr.Validation, "TransactionMismatch", "transaction does not belong to this order")
	ErrRefundNotAllowed    = apperr.New(apperr.Conflict, "RefundNotAllowed", "only paid wallet orders can be refunded")
	ErrNameRequired        = apperr.New(apperr.Validation, "NameRequired", "recipient name is required")
	ErrPhoneRequired       = apperr.New(apperr.Validation, "PhoneRequired", "recipient phone is required")
)
