package domain

import (
	"fmt"
	"strings"
	"time"

	ordersdomain "shop-checkout/internal/features/orders/domain"
)

// Kind identifies the event a message reports.
type Kind string

const (
	KindOrderConfirmed Kind = "order_confirmed"
	KindOrderShipped   Kind = "order_shipped"
)

// Message is a formatted customer notification.
type Message struct {
	Kind             Kind      `json:"kind"`
	OrderID          string    `json:"orderId"`
	CustomerIdentity string    `json:"customerIdentity,omitempty"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	Subject          string    `json:"subject"`
	Body             string    `json:"body"`
	CreatedAt        time.Time `json:"createdAt"`
}

func base(kind Kind, o *ordersdomain.Order, now time.Time) Message {
	return Message{
		Kind:             kind,
		OrderID:          o.ID,
		CustomerIdentity: o.CustomerIdentity,
		Name:             o.Name,
		Phone:            o.Phone,
		Email:            o.Email,
		CreatedAt:        now,
	}
}

// OrderConfirmation formats the receipt sent once an order is placed or paid.
func OrderConfirmation(o *ordersdomain.Order, now time.Time) Message {
	m := base(KindOrderConfirmed, o, now)
	m.Subject = fmt.Sprintf("Order %s confirmed", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, thank you for your order.\n\n", o.Name)
	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	b.WriteString(o.ItemsSummary)
	fmt.Fprintf(&b, "\nTotal: %d\n", o.Total)
	fmt.Fprintf(&b, "Delivery: %s\n", o.DeliveryMethod)
	if dest := destination(o); dest != "" {
		fmt.Fprintf(&b, "Ship to: %s\n", dest)
	}
	fmt.Fprintf(&b, "Payment: %s", o.PaymentMethod)
	if o.PaymentStatus != ordersdomain.PaymentNone {
		fmt.Fprintf(&b, " (%s)", o.PaymentStatus)
	}
	m.Body = b.String()
	return m
}

// ShipmentNotice formats the message sent when an order is handed to the carrier.
func ShipmentNotice(o *ordersdomain.Order, now time.Time) Message {
	m := base(KindOrderShipped, o, now)
	m.Subject = fmt.Sprintf("Order %s shipped", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, your order %s is on its way.", o.Name, o.ID)
	if dest := destination(o); dest != "" {
		fmt.Fprintf(&b, "\nShip to: %s", dest)
	}
	if o.TrackingNumber != "" {
		fmt.Fprintf(&b, "\nTracking number: %s", o.TrackingNumber)
	}
	m.Body = b.String()
	return m
}

func destination(o *ordersdomain.Order) string {
	switch {
	case o.StoreName != "":
		return strings.TrimSpace(o.StoreName + " " + o.StoreAddress)
	case o.Address != "":
		return strings.TrimSpace(o.City + " " + o.Address)
	default:
		return ""
	}
}
