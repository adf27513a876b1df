package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/auth"
	"shop-checkout/internal/core/httpx"
	"shop-checkout/internal/features/orders/domain"
	paymentsdomain "shop-checkout/internal/features/payments/domain"
	pricingdomain "shop-checkout/internal/features/pricing/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of ports.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Submit(ctx context.Context, customer string, sub domain.Submission) (*domain.Receipt, error) {
	args := m.Called(ctx, customer, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id string, viewer *auth.Identity) (*domain.Order, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Order, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ConfirmPayment(ctx context.Context, id string, tx paymentsdomain.TransactionID) (*domain.Order, error) {
	args := m.Called(ctx, id, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) CancelPayment(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) Refund(ctx context.Context, id string, amount int64) (*domain.Order, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func setupApp(svc *MockOrderService, caller *auth.Identity) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if caller != nil {
			auth.WithIdentity(c, caller)
		}
		return c.Next()
	})

	h := NewOrderHandler(svc)
	app.Post("/orders", h.Submit)
	app.Get("/orders/:id", h.GetOrder)
	app.Get("/payments/linepay/confirm", h.ConfirmPayment)
	app.Get("/payments/linepay/cancel", h.CancelPayment)
	app.Put("/admin/orders/:id/status", h.UpdateStatus)
	app.Post("/admin/orders/:id/refund", h.Refund)
	app.Get("/admin/orders", h.ListOrders)
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) httpx.ErrorResponse {
	t.Helper()
	var errResp httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp
}

func TestOrderHandler_Submit(t *testing.T) {
	sub := domain.Submission{
		Items:          []pricingdomain.CartLine{{ProductID: 1, SpecKey: "half", Quantity: 3}},
		Name:           "Lin",
		Phone:          "0912345678",
		DeliveryMethod: routingdomain.DeliveryInStore,
		PaymentMethod:  routingdomain.PaymentLinePay,
	}

	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, &auth.Identity{ExternalID: "u1", Role: auth.RoleUser})
		svc.On("Submit", mock.Anything, "u1", sub).Return(&domain.Receipt{
			OrderID:       "C2026061712000042",
			Total:         450,
			PaymentURL:    "https://sandbox-web-pay.line.me/pay",
			TransactionID: "2026061712345678901",
		}, nil).Once()

		resp, err := app.Test(jsonRequest("POST", "/orders", sub))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, true, got["success"])
		assert.Equal(t, "C2026061712000042", got["orderId"])
		assert.Equal(t, float64(450), got["total"])
		assert.Equal(t, "2026061712345678901", got["transactionId"])
		svc.AssertExpectations(t)
	})

	t.Run("BlacklistedCallerIsStillIdentified", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, &auth.Identity{ExternalID: "u9", Blacklisted: true})
		svc.On("Submit", mock.Anything, "u9", sub).
			Return(nil, apperr.New(apperr.Authorization, "AccountBlocked", "account is blocked: chargebacks")).Once()

		resp, err := app.Test(jsonRequest("POST", "/orders", sub))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "account is blocked: chargebacks", decodeError(t, resp).Error)
	})

	t.Run("TooFrequent", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, nil)
		svc.On("Submit", mock.Anything, "", sub).Return(nil, domain.ErrTooFrequent).Once()

		resp, err := app.Test(jsonRequest("POST", "/orders", sub))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

		errResp := decodeError(t, resp)
		assert.False(t, errResp.Success)
		assert.Equal(t, "TooFrequent", errResp.Code)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, nil)

		req := httptest.NewRequest("POST", "/orders", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	caller := &auth.Identity{ExternalID: "u1", Role: auth.RoleUser}

	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, caller)
		svc.On("Get", mock.Anything, "C1", caller).Return(&domain.Order{ID: "C1", Total: 450}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/orders/C1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got OrderResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.Success)
		assert.Equal(t, int64(450), got.Order.Total)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, caller)
		svc.On("Get", mock.Anything, "C2", caller).Return(nil, domain.ErrOrderNotFound).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/orders/C2", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BlacklistedIsAnonymous", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, &auth.Identity{ExternalID: "u9", Blacklisted: true})
		svc.On("Get", mock.Anything, "C1", (*auth.Identity)(nil)).Return(nil, auth.ErrNotLoggedIn).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/orders/C1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestOrderHandler_WalletCallbacks(t *testing.T) {
	t.Run("Confirm", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, nil)
		svc.On("ConfirmPayment", mock.Anything, "C1", paymentsdomain.TransactionID("2026061712345678901")).
			Return(&domain.Order{ID: "C1", PaymentStatus: domain.PaymentPaid}, nil).Twice()

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest("GET", "/payments/linepay/confirm?transactionId=2026061712345678901&orderId=C1", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var got PaymentResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.True(t, got.Success)
			assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
		}
		svc.AssertExpectations(t)
	})

	t.Run("ConfirmGatewayFailure", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, nil)
		svc.On("ConfirmPayment", mock.Anything, "C1", paymentsdomain.TransactionID("7")).
			Return(nil, apperr.GatewayErr("linepay", "1150", "transaction not found", nil)).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/payments/linepay/confirm?transactionId=7&orderId=C1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("MissingOrderID", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/payments/linepay/cancel", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Cancel", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, nil)
		svc.On("CancelPayment", mock.Anything, "C1").
			Return(&domain.Order{ID: "C1", PaymentStatus: domain.PaymentCancelled}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/payments/linepay/cancel?orderId=C1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestOrderHandler_Admin(t *testing.T) {
	admin := &auth.Identity{ExternalID: "a1", Role: auth.RoleAdmin}

	t.Run("UpdateStatus", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, admin)
		tracking := "TW123456"
		update := domain.StatusUpdate{DeliveryStatus: domain.DeliveryShipped, TrackingNumber: &tracking}
		svc.On("UpdateStatus", mock.Anything, "C1", update).
			Return(&domain.Order{ID: "C1", DeliveryStatus: domain.DeliveryShipped, TrackingNumber: tracking}, nil).Once()

		resp, err := app.Test(jsonRequest("PUT", "/admin/orders/C1/status", update))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("UpdateStatusInvalidTransition", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, admin)
		update := domain.StatusUpdate{DeliveryStatus: domain.DeliveryPending}
		svc.On("UpdateStatus", mock.Anything, "C1", update).Return(nil, domain.ErrInvalidTransition).Once()

		resp, err := app.Test(jsonRequest("PUT", "/admin/orders/C1/status", update))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("RefundFull", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, admin)
		svc.On("Refund", mock.Anything, "C1", int64(0)).
			Return(&domain.Order{ID: "C1", PaymentStatus: domain.PaymentRefunded}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/admin/orders/C1/refund", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("RefundPartial", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, admin)
		svc.On("Refund", mock.Anything, "C1", int64(100)).Return(nil, domain.ErrRefundNotAllowed).Once()

		resp, err := app.Test(jsonRequest("POST", "/admin/orders/C1/refund", RefundRequest{Amount: 100}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("List", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, admin)
		svc.On("List", mock.Anything, 20).Return([]domain.Order{{ID: "C2"}, {ID: "C1"}}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/admin/orders?limit=20", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got OrderListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got.Orders, 2)
		assert.Equal(t, "C2", got.Orders[0].ID)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		svc := new(MockOrderService)
		app := setupApp(svc, admin)
		svc.On("List", mock.Anything, 0).Return(nil, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/admin/orders", nil))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, []any{}, got["orders"])
	})
}
