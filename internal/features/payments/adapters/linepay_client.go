package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/core/signature"
	"shop-checkout/internal/features/payments/domain"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const gatewayName = "linepay"

// transactionIDPattern matches unquoted numeric transaction ids so they can be quoted before decoding.
var transactionIDPattern = regexp.MustCompile(`"(transactionId|refundTransactionId)"\s*:\s*(-?\d+)`)

// quoteTransactionIDs rewrites numeric transaction ids as JSON strings.
func quoteTransactionIDs(raw []byte) []byte {
	return transactionIDPattern.ReplaceAll(raw, []byte(`"$1":"$2"`))
}

// LinePayClient implements ports.WalletGateway against the LINE Pay v3 API.
type LinePayClient struct {
	channelID     string
	channelSecret string
	baseURL       string
	client        *http.Client
	breaker       *gobreaker.CircuitBreaker[[]byte]
	newNonce      func() string
}

// NewLinePayClient creates a new LinePayClient.
func NewLinePayClient(channelID, channelSecret, baseURL string, client *http.Client) *LinePayClient {
	return &LinePayClient{
		channelID:     channelID,
		channelSecret: channelSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
		client:        client,
		breaker:       newBreaker(gatewayName),
		newNonce:      uuid.NewString,
	}
}

// newBreaker trips after five consecutive transport or 5xx failures and probes again after 30s.
func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Named(name).Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// RequestPayment implements ports.WalletGateway.
func (c *LinePayClient) RequestPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	products := make([]linePayProduct, 0, len(req.Products))
	for _, p := range req.Products {
		products = append(products, linePayProduct{Name: p.Name, Quantity: p.Quantity, Price: p.Price})
	}

	body := linePayRequestBody{
		Amount:   req.Amount,
		Currency: req.Currency,
		OrderID:  req.OrderID,
		Packages: []linePayPackage{{
			ID:       req.OrderID,
			Amount:   req.Amount,
			Products: products,
		}},
		RedirectURLs: linePayRedirectURLs{
			ConfirmURL: req.ConfirmURL,
			CancelURL:  req.CancelURL,
		},
	}

	var info linePayRequestInfo
	if err := c.post(ctx, linePayRequestPath, body, &info); err != nil {
		return nil, err
	}
	if info.TransactionID == "" || info.PaymentURL.Web == "" {
		return nil, apperr.GatewayErr(gatewayName, "", "response is missing the transaction id or payment url", nil)
	}

	return &domain.PaymentSession{
		TransactionID: domain.TransactionID(info.TransactionID),
		PaymentURL:    info.PaymentURL.Web,
	}, nil
}

// ConfirmPayment implements ports.WalletGateway.
func (c *LinePayClient) ConfirmPayment(ctx context.Context, tx domain.TransactionID, amount int64, currency string) (*domain.Confirmation, error) {
	path := fmt.Sprintf("/v3/payments/%s/confirm", tx)

	var info linePayConfirmInfo
	if err := c.post(ctx, path, linePayConfirmBody{Amount: amount, Currency: currency}, &info); err != nil {
		return nil, err
	}

	confirmed := domain.TransactionID(info.TransactionID)
	if confirmed.IsZero() {
		confirmed = tx
	}
	return &domain.Confirmation{OrderID: info.OrderID, TransactionID: confirmed}, nil
}

// VoidPayment implements ports.WalletGateway.
func (c *LinePayClient) VoidPayment(ctx context.Context, tx domain.TransactionID) error {
	path := fmt.Sprintf("/v3/payments/authorizations/%s/void", tx)
	return c.post(ctx, path, struct{}{}, nil)
}

// RefundPayment implements ports.WalletGateway.
func (c *LinePayClient) RefundPayment(ctx context.Context, tx domain.TransactionID, amount int64) (*domain.Refund, error) {
	path := fmt.Sprintf("/v3/payments/%s/refund", tx)

	body := linePayRefundBody{}
	if amount > 0 {
		body.RefundAmount = amount
	}

	var info linePayRefundInfo
	if err := c.post(ctx, path, body, &info); err != nil {
		return nil, err
	}
	return &domain.Refund{
		RefundTransactionID: domain.TransactionID(info.RefundTransactionID),
		RefundedAt:          info.RefundTransactionDate,
	}, nil
}

// post signs and sends a JSON request and decodes the info object of a successful response into out.
func (c *LinePayClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("linepay: failed to encode request: %w", err)
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, path, body)
	})
	if err != nil {
		return apperr.GatewayErr(gatewayName, "", "", err)
	}

	var env linePayEnvelope
	if err := json.Unmarshal(quoteTransactionIDs(raw), &env); err != nil {
		return apperr.GatewayErr(gatewayName, "", "unreadable response: "+truncate(string(raw)), err)
	}

	if env.ReturnCode != linePaySuccessCode {
		logger.Named(gatewayName).Warn("Gateway rejected request",
			zap.String("path", path),
			zap.String("return_code", env.ReturnCode),
			zap.String("return_message", env.ReturnMessage),
		)
		return apperr.GatewayErr(gatewayName, env.ReturnCode, env.ReturnMessage, nil)
	}

	if out != nil && len(env.Info) > 0 {
		if err := json.Unmarshal(env.Info, out); err != nil {
			return apperr.GatewayErr(gatewayName, "", "unreadable response info", err)
		}
	}
	return nil
}

// send performs one signed round trip. Transport errors and 5xx responses count as breaker failures.
func (c *LinePayClient) send(ctx context.Context, path string, body []byte) ([]byte, error) {
	nonce := c.newNonce()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-LINE-ChannelId", c.channelID)
	req.Header.Set("X-LINE-Authorization-Nonce", nonce)
	req.Header.Set("X-LINE-Authorization", signature.LinePay(c.channelSecret, path, string(body), nonce))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(raw)))
	}
	return raw, nil
}

func truncate(s string) string {
	const limit = 256
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
