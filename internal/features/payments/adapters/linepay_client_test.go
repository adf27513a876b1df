package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/httpclient"
	"shop-checkout/internal/core/signature"
	"shop-checkout/internal/features/payments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChannelID     = "1656000000"
	testChannelSecret = "channel-secret"
)

type capturedRequest struct {
	Path  string
	Body  []byte
	Nonce string
	Sig   string
	Chan  string
}

func newTestServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*LinePayClient, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			Path:  r.URL.Path,
			Body:  body,
			Nonce: r.Header.Get("X-LINE-Authorization-Nonce"),
			Sig:   r.Header.Get("X-LINE-Authorization"),
			Chan:  r.Header.Get("X-LINE-ChannelId"),
		})
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewLinePayClient(testChannelID, testChannelSecret, srv.URL, httpclient.NewClient(5*time.Second))
	return client, &captured
}

func TestQuoteTransactionIDs(t *testing.T) {
	raw := []byte(`{"info":{"transactionId": 2024061712345678901,"refundTransactionId":2024061799999999999,"orderId":"C1"}}`)
	patched := quoteTransactionIDs(raw)

	var decoded struct {
		Info struct {
			TransactionID       string `json:"transactionId"`
			RefundTransactionID string `json:"refundTransactionId"`
		} `json:"info"`
	}
	require.NoError(t, json.Unmarshal(patched, &decoded))
	assert.Equal(t, "2024061712345678901", decoded.Info.TransactionID)
	assert.Equal(t, "2024061799999999999", decoded.Info.RefundTransactionID)

	already := []byte(`{"transactionId":"123"}`)
	assert.Equal(t, already, quoteTransactionIDs(already))
}

func TestLinePayClient_RequestPayment(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"returnCode":"0000","returnMessage":"Success.","info":{"paymentUrl":{"web":"https://sandbox-web-pay.line.me/web/payment/wait?transactionReserveId=abc","app":"line://pay/payment/abc"},"transactionId":2024061712345678901,"paymentAccessToken":"187568751124"}}`))
	})

	session, err := client.RequestPayment(context.Background(), domain.PaymentRequest{
		OrderID:    "C2026061712000042",
		Amount:     450,
		Currency:   "TWD",
		Products:   []domain.Product{{Name: "Dried Mango (Half jin)", Quantity: 3, Price: 150}},
		ConfirmURL: "https://shop.test/payments/linepay/confirm",
		CancelURL:  "https://shop.test/payments/linepay/cancel?orderId=C2026061712000042",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID("2024061712345678901"), session.TransactionID)
	assert.Contains(t, session.PaymentURL, "transactionReserveId=abc")

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/v3/payments/request", req.Path)
	assert.Equal(t, testChannelID, req.Chan)
	assert.NotEmpty(t, req.Nonce)
	assert.True(t, signature.VerifyLinePay(testChannelSecret, req.Path, string(req.Body), req.Nonce, req.Sig))

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, float64(450), body["amount"])
	assert.Equal(t, "C2026061712000042", body["orderId"])
	packages := body["packages"].([]any)
	require.Len(t, packages, 1)
	assert.Equal(t, float64(450), packages[0].(map[string]any)["amount"])
}

func TestLinePayClient_FreshNoncePerCall(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"returnCode":"0000","info":{"orderId":"C1","transactionId":1}}`))
	})
	ctx := context.Background()

	_, err := client.ConfirmPayment(ctx, "1", 100, "TWD")
	require.NoError(t, err)
	_, err = client.ConfirmPayment(ctx, "1", 100, "TWD")
	require.NoError(t, err)

	require.Len(t, *captured, 2)
	assert.NotEqual(t, (*captured)[0].Nonce, (*captured)[1].Nonce)
}

func TestLinePayClient_ConfirmPayment(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"returnCode":"0000","returnMessage":"OK","info":{"orderId":"C2026061712000042","transactionId":2024061712345678901,"payInfo":[{"method":"BALANCE","amount":450}]}}`))
	})

	conf, err := client.ConfirmPayment(context.Background(), "2024061712345678901", 450, "TWD")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID("2024061712345678901"), conf.TransactionID)
	assert.Equal(t, "C2026061712000042", conf.OrderID)

	req := (*captured)[0]
	assert.Equal(t, "/v3/payments/2024061712345678901/confirm", req.Path)
	assert.JSONEq(t, `{"amount":450,"currency":"TWD"}`, string(req.Body))
}

func TestLinePayClient_VoidPayment(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"returnCode":"0000","returnMessage":"Success."}`))
	})

	require.NoError(t, client.VoidPayment(context.Background(), "2024061712345678901"))
	assert.Equal(t, "/v3/payments/authorizations/2024061712345678901/void", (*captured)[0].Path)
}

func TestLinePayClient_RefundPayment(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"returnCode":"0000","info":{"refundTransactionId":2024061799999999999,"refundTransactionDate":"2026-06-17T09:00:00Z"}}`))
	})
	ctx := context.Background()

	refund, err := client.RefundPayment(ctx, "2024061712345678901", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID("2024061799999999999"), refund.RefundTransactionID)
	assert.JSONEq(t, `{}`, string((*captured)[0].Body))

	_, err = client.RefundPayment(ctx, "2024061712345678901", 120)
	require.NoError(t, err)
	assert.JSONEq(t, `{"refundAmount":120}`, string((*captured)[1].Body))
	assert.Equal(t, "/v3/payments/2024061712345678901/refund", (*captured)[1].Path)
}

func TestLinePayClient_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnCode", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"returnCode":"1172","returnMessage":"Existing same orderId."}`))
		})
		_, err := client.RequestPayment(ctx, domain.PaymentRequest{OrderID: "C1", Amount: 1, Currency: "TWD"})
		require.Error(t, err)

		var gwErr *apperr.Error
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, apperr.Gateway, gwErr.Kind)
		assert.Equal(t, "1172", gwErr.UpstreamCode)
		assert.Contains(t, gwErr.Message, "Existing same orderId.")
	})

	t.Run("ServerError", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		})
		_, err := client.ConfirmPayment(ctx, "1", 1, "TWD")
		assert.Equal(t, apperr.Gateway, apperr.KindOf(err))
		assert.Contains(t, apperr.MessageOf(err), "upstream down")
	})

	t.Run("Unreadable", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		})
		err := client.VoidPayment(ctx, "1")
		assert.Equal(t, apperr.Gateway, apperr.KindOf(err))
		assert.Contains(t, apperr.MessageOf(err), "maintenance")
	})

	t.Run("Transport", func(t *testing.T) {
		client := NewLinePayClient(testChannelID, testChannelSecret, "http://127.0.0.1:1", httpclient.NewClient(time.Second))
		_, err := client.RefundPayment(ctx, "1", 0)
		assert.Equal(t, apperr.Gateway, apperr.KindOf(err))
	})

	t.Run("BreakerOpens", func(t *testing.T) {
		calls := 0
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		})
		for i := 0; i < 7; i++ {
			err := client.VoidPayment(ctx, "1")
			assert.Equal(t, apperr.Gateway, apperr.KindOf(err))
		}
		assert.Equal(t, 5, calls)
	})
}

func TestLinePayBaseURL(t *testing.T) {
	assert.Equal(t, LinePaySandboxURL, LinePayBaseURL(true))
	assert.Equal(t, LinePayProductionURL, LinePayBaseURL(false))
}
