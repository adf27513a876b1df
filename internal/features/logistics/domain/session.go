package domain

import (
	"strings"
	"time"

	"shop-checkout/internal/core/apperr"
)

// SessionRetention is how long a store selection session may live before it is swept.
const SessionRetention = 24 * time.Hour

var (
	ErrSessionNotFound     = apperr.New(apperr.NotFound, "SessionNotFound", "store selection session not found or expired")
	ErrUnknownSubType      = apperr.New(apperr.Validation, "UnknownLogisticsSubType", "unknown convenience store type")
	ErrReturnURLNotAllowed = apperr.New(apperr.Validation, "ReturnURLNotAllowed", "return url is not allowed")
	ErrInvalidCallback     = apperr.New(apperr.Validation, "InvalidCallback", "invalid courier callback")
	ErrCheckMacMismatch    = apperr.New(apperr.Authorization, "CheckMacValueMismatch", "courier callback signature mismatch")
)

// SubType is the courier's convenience store network code.
type SubType string

const (
	SubTypeSevenEleven SubType = "UNIMARTC2C"
	SubTypeFamilyMart  SubType = "FAMIC2C"
)

// ParseSubType accepts either the network code or the delivery method name.
func ParseSubType(raw string) (SubType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unimartc2c", "unimart", "seven_eleven", "711":
		return SubTypeSevenEleven, nil
	case "famic2c", "fami", "family_mart":
		return SubTypeFamilyMart, nil
	default:
		return "", ErrUnknownSubType.WithMessage("unknown convenience store type %q", raw)
	}
}

// Store is a convenience store location.
type Store struct {
	ID      string `json:"storeId"`
	Name    string `json:"storeName"`
	Address string `json:"storeAddress"`
	Phone   string `json:"storePhone,omitempty"`
}

// Session correlates a courier map round trip with the client that started it.
type Session struct {
	Token     string
	SubType   SubType
	Store     Store
	ReturnURL string
	CreatedAt time.Time
}

// Selected reports whether the courier callback has delivered a store.
func (s *Session) Selected() bool {
	return s.Store.Name != ""
}

// Expired reports whether the session is past retention at now.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > SessionRetention
}

// MapForm is the auto-post form that opens the courier's store picker.
type MapForm struct {
	Token  string            `json:"token"`
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

// Callback is the store choice reported by the courier.
type Callback struct {
	Token string
	Store Store
}
