package handler

import (
	"net/http"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/auth"
	"shop-checkout/internal/core/httpx"
	"shop-checkout/internal/features/orders/domain"
	"shop-checkout/internal/features/orders/ports"
	paymentsdomain "shop-checkout/internal/features/payments/domain"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	service ports.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s ports.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// SubmitResponse is returned after an order has been created.
type SubmitResponse struct {
	Success bool `json:"success"`
	domain.Receipt
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Success bool          `json:"success"`
	Order   *domain.Order `json:"order"`
}

// OrderListResponse wraps a page of orders.
type OrderListResponse struct {
	Success bool           `json:"success"`
	Orders  []domain.Order `json:"orders"`
}

// PaymentResponse reports the payment state after a wallet callback.
type PaymentResponse struct {
	Success       bool                 `json:"success"`
	OrderID       string               `json:"orderId"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
}

// RefundRequest is the body of POST /admin/orders/:id/refund.
type RefundRequest struct {
	// Amount to refund; zero or negative refunds the full amount.
	Amount int64 `json:"amount"`
}

var errInvalidBody = apperr.Validationf("InvalidRequestBody", "invalid request body")

// Submit handles POST /orders.
// @Summary Submit an order
// @Description Prices the cart, validates delivery and payment, stores the order and, for wallet payments, opens the payment.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body domain.Submission true "Checkout form"
// @Success 200 {object} SubmitResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var sub domain.Submission
	if err := c.BodyParser(&sub); err != nil {
		return httpx.WriteError(c, errInvalidBody)
	}

	receipt, err := h.service.Submit(c.UserContext(), auth.SubjectFromContext(c), sub)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(SubmitResponse{Success: true, Receipt: *receipt})
}

// GetOrder handles GET /orders/:id.
// @Summary Get Order by ID
// @Description Returns an order to its owner or to an administrator.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.Get(c.UserContext(), c.Params("id"), auth.FromContext(c))
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(OrderResponse{Success: true, Order: order})
}

// ConfirmPayment handles GET /payments/linepay/confirm.
// @Summary Wallet confirm callback
// @Description Captures an approved wallet payment. Repeated calls for a paid order succeed without contacting the gateway.
// @Tags Payments
// @Produce json
// @Param orderId query string true "Order ID"
// @Param transactionId query string false "Wallet transaction ID"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /payments/linepay/confirm [get]
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	orderID := c.Query("orderId")
	if orderID == "" {
		return httpx.WriteError(c, apperr.Validationf("OrderIDRequired", "orderId is required"))
	}

	order, err := h.service.ConfirmPayment(c.UserContext(), orderID, paymentsdomain.TransactionID(c.Query("transactionId")))
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(PaymentResponse{Success: true, OrderID: order.ID, PaymentStatus: order.PaymentStatus})
}

// CancelPayment handles GET /payments/linepay/cancel.
// @Summary Wallet cancel callback
// @Description Cancels a pending wallet payment. Orders past pending are left unchanged.
// @Tags Payments
// @Produce json
// @Param orderId query string true "Order ID"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /payments/linepay/cancel [get]
func (h *OrderHandler) CancelPayment(c *fiber.Ctx) error {
	orderID := c.Query("orderId")
	if orderID == "" {
		return httpx.WriteError(c, apperr.Validationf("OrderIDRequired", "orderId is required"))
	}

	order, err := h.service.CancelPayment(c.UserContext(), orderID)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(PaymentResponse{Success: true, OrderID: order.ID, PaymentStatus: order.PaymentStatus})
}

// UpdateStatus handles PUT /admin/orders/:id/status.
// @Summary Update order status
// @Description Moves the delivery and payment status along the allowed transitions.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body domain.StatusUpdate true "New status"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var update domain.StatusUpdate
	if err := c.BodyParser(&update); err != nil {
		return httpx.WriteError(c, errInvalidBody)
	}

	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(OrderResponse{Success: true, Order: order})
}

// Refund handles POST /admin/orders/:id/refund.
// @Summary Refund a wallet order
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param refund body RefundRequest false "Refund amount"
// @Success 200 {object} OrderResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /admin/orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *fiber.Ctx) error {
	var req RefundRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return httpx.WriteError(c, errInvalidBody)
		}
	}

	order, err := h.service.Refund(c.UserContext(), c.Params("id"), req.Amount)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(OrderResponse{Success: true, Order: order})
}

// ListOrders handles GET /admin/orders.
// @Summary List recent orders
// @Tags Admin
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Success 200 {object} OrderListResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.Status(http.StatusOK).JSON(OrderListResponse{Success: true, Orders: orders})
}
