package domain

import (
	"testing"
	"time"

	ordersdomain "shop-checkout/internal/features/orders/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"

	"github.com/stretchr/testify/assert"
)

func TestOrderConfirmation(t *testing.T) {
	now := time.Date(2026, 6, 17, 12, 0, 0, 0, time.UTC)
	order := &ordersdomain.Order{
		ID:             "C2026061720000042",
		Name:           "Lin",
		Phone:          "0912345678",
		Email:          "lin@example.com",
		StoreName:      "Xinyi Store",
		StoreAddress:   "Xinyi Rd.",
		ItemsSummary:   "Dried Mango (Half jin) x3 = 450",
		Total:          450,
		DeliveryMethod: routingdomain.DeliverySevenEleven,
		PaymentMethod:  routingdomain.PaymentLinePay,
		PaymentStatus:  ordersdomain.PaymentPaid,
	}

	msg := OrderConfirmation(order, now)
	assert.Equal(t, KindOrderConfirmed, msg.Kind)
	assert.Equal(t, "C2026061720000042", msg.OrderID)
	assert.Equal(t, "lin@example.com", msg.Email)
	assert.Equal(t, now, msg.CreatedAt)
	assert.Equal(t, "Order C2026061720000042 confirmed", msg.Subject)
	assert.Contains(t, msg.Body, "Dried Mango (Half jin) x3 = 450")
	assert.Contains(t, msg.Body, "Total: 450")
	assert.Contains(t, msg.Body, "Ship to: Xinyi Store Xinyi Rd.")
	assert.Contains(t, msg.Body, "Payment: linepay (paid)")
}

func TestOrderConfirmation_CashOnDelivery(t *testing.T) {
	order := &ordersdomain.Order{
		ID:             "C2026061720000001",
		Name:           "Lin",
		DeliveryMethod: routingdomain.DeliveryInStore,
		PaymentMethod:  routingdomain.PaymentCOD,
	}

	msg := OrderConfirmation(order, time.Now())
	assert.NotContains(t, msg.Body, "Ship to:")
	assert.Contains(t, msg.Body, "Payment: cod")
	assert.NotContains(t, msg.Body, "Payment: cod (")
}

func TestShipmentNotice(t *testing.T) {
	order := &ordersdomain.Order{
		ID:             "C2026061720000042",
		Name:           "Lin",
		City:           "Taipei",
		Address:        "No. 7, Xinyi Rd.",
		TrackingNumber: "TW123456",
	}

	msg := ShipmentNotice(order, time.Now())
	assert.Equal(t, KindOrderShipped, msg.Kind)
	assert.Equal(t, "Order C2026061720000042 shipped", msg.Subject)
	assert.Contains(t, msg.Body, "Ship to: Taipei No. 7, Xinyi Rd.")
	assert.Contains(t, msg.Body, "Tracking number: TW123456")

	order.TrackingNumber = ""
	assert.NotContains(t, ShipmentNotice(order, time.Now()).Body, "Tracking number")
}
