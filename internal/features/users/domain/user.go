package domain

import (
	"strings"

	"shop-checkout/internal/core/apperr"
)

var (
	ErrUserNotFound   = apperr.New(apperr.NotFound, "UserNotFound", "user not found")
	ErrAccountBlocked = apperr.New(apperr.Authorization, "AccountBlocked", "account is blocked")
)

// DeliveryDefaults are the contact and delivery fields prefilled on the next checkout.
type DeliveryDefaults struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	City           string `json:"city,omitempty"`
	Address        string `json:"address,omitempty"`
	StoreID        string `json:"store_id,omitempty"`
	StoreName      string `json:"store_name,omitempty"`
	StoreAddress   string `json:"store_address,omitempty"`
	DeliveryMethod string `json:"delivery_method"`
}

// User is a directory record keyed by the external identity id.
type User struct {
	ExternalID      string
	DisplayName     string
	Role            string
	Phone           string
	Blacklisted     bool
	BlacklistReason string
	Defaults        DeliveryDefaults
}

// BlockedError returns ErrAccountBlocked carrying the stored reason.
func (u *User) BlockedError() error {
	reason := strings.TrimSpace(u.BlacklistReason)
	if reason == "" {
		return ErrAccountBlocked
	}
	return ErrAccountBlocked.WithMessage("account is blocked: %s", reason)
}

// NormalizePhone drops separators so stored and submitted numbers compare equal.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}
