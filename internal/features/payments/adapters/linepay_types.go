package adapters

import "encoding/json"

const (
	linePaySuccessCode = "0000"

	linePayRequestPath = "/v3/payments/request"
)

// LinePay base URLs.
const (
	LinePaySandboxURL    = "https://sandbox-api-pay.line.me"
	LinePayProductionURL = "https://api-pay.line.me"
)

// LinePayBaseURL selects the API host.
func LinePayBaseURL(sandbox bool) string {
	if sandbox {
		return LinePaySandboxURL
	}
	return LinePayProductionURL
}

type linePayEnvelope struct {
	ReturnCode    string          `json:"returnCode"`
	ReturnMessage string          `json:"returnMessage"`
	Info          json.RawMessage `json:"info"`
}

type linePayProduct struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

type linePayPackage struct {
	ID       string           `json:"id"`
	Amount   int64            `json:"amount"`
	Name     string           `json:"name,omitempty"`
	Products []linePayProduct `json:"products"`
}

type linePayRedirectURLs struct {
	ConfirmURL string `json:"confirmUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type linePayRequestBody struct {
	Amount       int64               `json:"amount"`
	Currency     string              `json:"currency"`
	OrderID      string              `json:"orderId"`
	Packages     []linePayPackage    `json:"packages"`
	RedirectURLs linePayRedirectURLs `json:"redirectUrls"`
}

type linePayRequestInfo struct {
	TransactionID string `json:"transactionId"`
	PaymentURL    struct {
		Web string `json:"web"`
		App string `json:"app"`
	} `json:"paymentUrl"`
}

type linePayConfirmBody struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type linePayConfirmInfo struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
}

type linePayRefundBody struct {
	RefundAmount int64 `json:"refundAmount,omitempty"`
}

type linePayRefundInfo struct {
	RefundTransactionID   string `json:"refundTransactionId"`
	RefundTransactionDate string `json:"refundTransactionDate"`
}
