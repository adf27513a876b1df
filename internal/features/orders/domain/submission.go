package domain

import (
	paymentsdomain "shop-checkout/internal/features/payments/domain"
	pricingdomain "shop-checkout/internal/features/pricing/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"
)

// Submission is the checkout form posted by the client.
type Submission struct {
	Items []pricingdomain.CartLine `json:"items"`

	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	City         string            `json:"city"`
	Address      string            `json:"address"`
	StoreID      string            `json:"storeId"`
	StoreName    string            `json:"storeName"`
	StoreAddress string            `json:"storeAddress"`
	Note         string            `json:"note"`
	CustomFields map[string]string `json:"customFields"`
	BankLastFive string            `json:"bankLastFive"`

	DeliveryMethod routingdomain.DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod  routingdomain.PaymentMethod  `json:"paymentMethod"`
}

// Receipt is returned to the client after a successful submission.
type Receipt struct {
	OrderID       string                       `json:"orderId"`
	Total         int64                        `json:"total"`
	PaymentURL    string                       `json:"paymentUrl,omitempty"`
	TransactionID paymentsdomain.TransactionID `json:"transactionId,omitempty"`
}

// StatusUpdate is an administrative status change. Nil fields are left unchanged.
type StatusUpdate struct {
	DeliveryStatus DeliveryStatus `json:"deliveryStatus"`
	PaymentStatus  *PaymentStatus `json:"paymentStatus,omitempty"`
	TrackingNumber *string        `json:"trackingNumber,omitempty"`
}
