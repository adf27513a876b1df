package service

import (
	"context"
	"fmt"
	"time"

	"shop-checkout/internal/features/pricing/domain"
	"shop-checkout/internal/features/pricing/ports"
)

// Quoter prices a cart against live catalog and promotion data.
type Quoter struct {
	catalog    ports.CatalogStore
	promotions ports.PromotionStore
}

// NewQuoter creates a new Quoter.
func NewQuoter(catalog ports.CatalogStore, promotions ports.PromotionStore) *Quoter {
	return &Quoter{
		catalog:    catalog,
		promotions: promotions,
	}
}

// Quote prices the cart and applies the promotions active at now.
func (q *Quoter) Quote(ctx context.Context, lines []domain.CartLine, now time.Time) (*domain.Quote, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	products, err := q.catalog.GetProducts(ctx, ProductIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("pricing: failed to load products: %w", err)
	}

	subtotal, resolved, err := Price(lines, products)
	if err != nil {
		return nil, err
	}

	promos, err := q.promotions.ListPromotions(ctx)
	if err != nil {
		return nil, fmt.Errorf("pricing: failed to load promotions: %w", err)
	}

	discount, applied := ApplyPromotions(resolved, promos, now)

	return &domain.Quote{
		Lines:      resolved,
		Subtotal:   subtotal,
		Discount:   discount,
		Promotions: applied,
	}, nil
}
