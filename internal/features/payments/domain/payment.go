package domain

// TransactionID is the wallet gateway transaction id. It can exceed the float64 safe integer
// range, so it is carried as an opaque string from the adapter to storage and back.
type TransactionID string

func (t TransactionID) String() string { return string(t) }

// IsZero reports whether no transaction has been assigned.
func (t TransactionID) IsZero() bool { return t == "" }

// Product is one line of the payment package shown on the wallet page.
type Product struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// PaymentRequest opens a wallet payment for an order.
type PaymentRequest struct {
	OrderID    string
	Amount     int64
	Currency   string
	Products   []Product
	ConfirmURL string
	CancelURL  string
}

// PaymentSession is the gateway's answer to a payment request.
type PaymentSession struct {
	TransactionID TransactionID
	PaymentURL    string
}

// Confirmation is the result of a confirmed payment.
type Confirmation struct {
	OrderID       string
	TransactionID TransactionID
}

// Refund is the result of a refund.
type Refund struct {
	RefundTransactionID TransactionID
	RefundedAt          string
}
