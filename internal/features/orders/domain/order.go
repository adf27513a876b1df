package domain

import (
	"time"

	paymentsdomain "shop-checkout/internal/features/payments/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"
)

// DeliveryStatus represents the fulfilment state of an order.
type DeliveryStatus string

const (
	// DeliveryPending indicates the order has been placed but not yet handled.
	DeliveryPending DeliveryStatus = "pending"
	// DeliveryProcessing indicates the order is being packed.
	DeliveryProcessing DeliveryStatus = "processing"
	// DeliveryShipped indicates the order has been handed to the carrier.
	DeliveryShipped DeliveryStatus = "shipped"
	// DeliveryCompleted indicates the order has been delivered or picked up.
	DeliveryCompleted DeliveryStatus = "completed"
	// DeliveryCancelled indicates the order will not be fulfilled.
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// PaymentStatus represents the payment state of an order. It is empty for cash on delivery.
type PaymentStatus string

const (
	PaymentNone      PaymentStatus = ""
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:    {DeliveryProcessing, DeliveryShipped, DeliveryCompleted, DeliveryCancelled},
	DeliveryProcessing: {DeliveryShipped, DeliveryCompleted, DeliveryCancelled},
	DeliveryShipped:    {DeliveryCompleted, DeliveryCancelled},
	DeliveryCompleted:  {},
	DeliveryCancelled:  {},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentNone:      {},
	PaymentPending:   {PaymentPaid, PaymentFailed, PaymentCancelled},
	PaymentPaid:      {PaymentRefunded},
	PaymentFailed:    {},
	PaymentCancelled: {},
	PaymentRefunded:  {},
}

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	_, ok := deliveryTransitions[s]
	return ok
}

// Terminal reports whether no further delivery transition is possible.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryCompleted || s == DeliveryCancelled
}

// CanTransitionTo reports whether the delivery status may move to next.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionTo reports whether the payment status may move to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InitialPaymentStatus returns the payment status a new order starts in.
func InitialPaymentStatus(method routingdomain.PaymentMethod) PaymentStatus {
	if method == routingdomain.PaymentCOD {
		return PaymentNone
	}
	return PaymentPending
}

// Order represents a customer order in the system.
type Order struct {
	// ID is the human-readable order id.
	ID        string    `json:"orderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// CustomerIdentity is the external id of the submitting user, empty when anonymous.
	CustomerIdentity string `json:"customerIdentity,omitempty"`

	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email,omitempty"`
	City         string            `json:"city,omitempty"`
	Address      string            `json:"address,omitempty"`
	StoreID      string            `json:"storeId,omitempty"`
	StoreName    string            `json:"storeName,omitempty"`
	StoreAddress string            `json:"storeAddress,omitempty"`
	Note         string            `json:"note,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
	BankLastFive string            `json:"bankLastFive,omitempty"`

	// ItemsSummary is the denormalized human-readable line item text.
	ItemsSummary string `json:"itemsSummary"`
	Subtotal     int64  `json:"subtotal"`
	Discount     int64  `json:"discount"`
	ShippingFee  int64  `json:"shippingFee"`
	Total        int64  `json:"total"`

	DeliveryMethod routingdomain.DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod  routingdomain.PaymentMethod  `json:"paymentMethod"`
	DeliveryStatus DeliveryStatus               `json:"deliveryStatus"`
	PaymentStatus  PaymentStatus                `json:"paymentStatus"`
	// TransactionID is the wallet transaction id, kept as an opaque string.
	TransactionID  paymentsdomain.TransactionID `json:"transactionId,omitempty"`
	TrackingNumber string                       `json:"trackingNumber,omitempty"`
}

// OwnedBy reports whether the order was submitted by the given external id.
func (o *Order) OwnedBy(externalID string) bool {
	return externalID != "" && o.CustomerIdentity == externalID
}

// UsesWallet reports whether the order is paid through the online wallet.
func (o *Order) UsesWallet() bool {
	return o.PaymentMethod.IsOnlineWallet()
}

// Totals computes subtotal - discount + shipping, never below zero.
func Totals(subtotal, discount, shippingFee int64) int64 {
	if discount > subtotal {
		discount = subtotal
	}
	total := subtotal - discount + shippingFee
	if total < 0 {
		return 0
	}
	return total
}

// StatusSnapshot is the stored status state an admin update expects to overwrite.
type StatusSnapshot struct {
	DeliveryStatus DeliveryStatus
	PaymentStatus  PaymentStatus
	TrackingNumber string
}

// Snapshot captures the current status fields of the order.
func (o *Order) Snapshot() StatusSnapshot {
	return StatusSnapshot{
		DeliveryStatus: o.DeliveryStatus,
		PaymentStatus:  o.PaymentStatus,
		TrackingNumber: o.TrackingNumber,
	}
}

// PaymentChange moves the payment status of one order and leaves delivery progress and tracking
// untouched, except for CancelPendingDelivery.
type PaymentChange struct {
	From PaymentStatus
	To   PaymentStatus
	// TransactionID replaces the stored id when set.
	TransactionID paymentsdomain.TransactionID
	// CancelPendingDelivery also cancels a delivery that has not started.
	CancelPendingDelivery bool
	At                    time.Time
}

// Apply mirrors the stored write on an in-memory order.
func (c PaymentChange) Apply(o *Order) {
	o.PaymentStatus = c.To
	if !c.TransactionID.IsZero() {
		o.TransactionID = c.TransactionID
	}
	if c.CancelPendingDelivery && o.DeliveryStatus == DeliveryPending {
		o.DeliveryStatus = DeliveryCancelled
	}
	o.UpdatedAt = c.At
}
