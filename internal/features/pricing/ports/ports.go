package ports

import (
	"context"

	"shop-checkout/internal/features/pricing/domain"
)

// CatalogStore defines the secondary port for product lookup.
type CatalogStore interface {
	// GetProducts returns the requested products keyed by id. Unknown ids are absent from the map.
	GetProducts(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
}

// PromotionStore defines the secondary port for promotion lookup.
type PromotionStore interface {
	// ListPromotions returns enabled promotions. Time window filtering happens in the engine.
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
}
