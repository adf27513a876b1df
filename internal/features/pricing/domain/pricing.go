package domain

import (
	"time"

	"shop-checkout/internal/core/apperr"
)

var (
	ErrEmptyCart       = apperr.New(apperr.Validation, "EmptyCart", "cart is empty")
	ErrUnknownProduct  = apperr.New(apperr.NotFound, "UnknownProduct", "product not found")
	ErrProductDisabled = apperr.New(apperr.Conflict, "ProductDisabled", "product is no longer available")
	ErrSpecRequired    = apperr.New(apperr.Validation, "SpecRequired", "a spec must be selected")
	ErrUnknownSpec     = apperr.New(apperr.NotFound, "UnknownSpec", "spec not found")
	ErrSpecDisabled    = apperr.New(apperr.Conflict, "SpecDisabled", "spec is no longer available")
	ErrUnexpectedSpec  = apperr.New(apperr.Validation, "UnexpectedSpec", "product has no specs, please refresh the cart")
)

// CartLine is a client supplied cart entry. It is revalidated on every request.
type CartLine struct {
	ProductID int64   `json:"productId"`
	SpecKey   string  `json:"specKey,omitempty"`
	Quantity  float64 `json:"quantity"`
}

// Spec is a priced variant of a product.
type Spec struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Price   int64  `json:"price"`
	Enabled bool   `json:"enabled"`
}

// Product is a catalog entry.
type Product struct {
	ID        int64
	Name      string
	BasePrice int64
	Enabled   bool
	Specs     []Spec
}

// FindSpec resolves a spec by key, falling back to its label.
func (p *Product) FindSpec(keyOrLabel string) (*Spec, bool) {
	for i := range p.Specs {
		if p.Specs[i].Key == keyOrLabel {
			return &p.Specs[i], true
		}
	}
	for i := range p.Specs {
		if p.Specs[i].Label == keyOrLabel {
			return &p.Specs[i], true
		}
	}
	return nil, false
}

// ResolvedLine is a cart line priced against the catalog.
type ResolvedLine struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	SpecKey     string `json:"specKey,omitempty"`
	SpecLabel   string `json:"specLabel,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

// LineTotal returns quantity times unit price.
func (l ResolvedLine) LineTotal() int64 {
	return l.Quantity * l.UnitPrice
}

// PromotionType is the promotion family. Only bundle promotions exist today.
type PromotionType string

const PromotionTypeBundle PromotionType = "bundle"

// DiscountType selects how a bundle discount is computed.
type DiscountType string

const (
	// DiscountPercent keeps DiscountValue percent of the matched subtotal.
	DiscountPercent DiscountType = "percent"
	// DiscountAmount takes DiscountValue off per full MinQuantity set.
	DiscountAmount DiscountType = "amount"
)

// TargetItem selects cart lines. An empty SpecKey matches every spec of the product.
type TargetItem struct {
	ProductID int64  `json:"productId"`
	SpecKey   string `json:"specKey,omitempty"`
}

// Matches reports whether a resolved line is selected by the target.
func (t TargetItem) Matches(line ResolvedLine) bool {
	if t.ProductID != line.ProductID {
		return false
	}
	return t.SpecKey == "" || t.SpecKey == line.SpecKey
}

// Promotion is a bundle discount rule.
type Promotion struct {
	ID            int64
	Name          string
	Type          PromotionType
	TargetItems   []TargetItem
	MinQuantity   int64
	DiscountType  DiscountType
	DiscountValue float64
	Enabled       bool
	StartsAt      *time.Time
	EndsAt        *time.Time
	SortOrder     int
}

// ActiveAt reports whether the promotion participates at the given instant.
func (p *Promotion) ActiveAt(now time.Time) bool {
	if !p.Enabled || p.Type != PromotionTypeBundle {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

// AppliedPromotion records a discount that contributed to an order.
type AppliedPromotion struct {
	PromotionID int64  `json:"promotionId"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
}

// Quote is the priced cart before shipping.
type Quote struct {
	Lines      []ResolvedLine
	Subtotal   int64
	Discount   int64
	Promotions []AppliedPromotion
}

// DiscountedSubtotal is the subtotal after promotions. It is never negative.
func (q *Quote) DiscountedSubtotal() int64 {
	return q.Subtotal - q.Discount
}
