package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/features/pricing/domain"

	"github.com/lib/pq"
)

// PostgresCatalog implements ports.CatalogStore and ports.PromotionStore.
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog creates a new PostgresCatalog.
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

type productRow struct {
	ID        int64
	Name      string
	BasePrice int64
	Enabled   bool
}

type specRow struct {
	ProductID int64
	Key       string
	Label     sql.NullString
	Price     int64
	Enabled   bool
}

// GetProducts implements ports.CatalogStore. Specs are returned in sort_order.
func (c *PostgresCatalog) GetProducts(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	products := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, price, enabled FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, apperr.PersistenceErr("query products", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r productRow
		if err := rows.Scan(&r.ID, &r.Name, &r.BasePrice, &r.Enabled); err != nil {
			return nil, apperr.PersistenceErr("scan product row", err)
		}
		products[r.ID] = &domain.Product{
			ID:        r.ID,
			Name:      r.Name,
			BasePrice: r.BasePrice,
			Enabled:   r.Enabled,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.PersistenceErr("iterate product rows", err)
	}

	specRows, err := c.db.QueryContext(ctx,
		`SELECT product_id, spec_key, label, price, enabled FROM product_specs
		 WHERE product_id = ANY($1) ORDER BY product_id, sort_order, spec_key`, pq.Array(ids))
	if err != nil {
		return nil, apperr.PersistenceErr("query product specs", err)
	}
	defer specRows.Close()

	for specRows.Next() {
		var r specRow
		if err := specRows.Scan(&r.ProductID, &r.Key, &r.Label, &r.Price, &r.Enabled); err != nil {
			return nil, apperr.PersistenceErr("scan spec row", err)
		}
		p, ok := products[r.ProductID]
		if !ok {
			continue
		}
		label := r.Label.String
		if label == "" {
			label = r.Key
		}
		p.Specs = append(p.Specs, domain.Spec{
			Key:     r.Key,
			Label:   label,
			Price:   r.Price,
			Enabled: r.Enabled,
		})
	}
	if err := specRows.Err(); err != nil {
		return nil, apperr.PersistenceErr("iterate spec rows", err)
	}

	return products, nil
}

type promotionRow struct {
	ID            int64
	Name          string
	Type          string
	TargetItems   []byte
	MinQuantity   int64
	DiscountType  string
	DiscountValue float64
	Enabled       bool
	StartsAt      sql.NullTime
	EndsAt        sql.NullTime
	SortOrder     int
}

func (r *promotionRow) toDomain() (domain.Promotion, error) {
	p := domain.Promotion{
		ID:            r.ID,
		Name:          r.Name,
		Type:          domain.PromotionType(r.Type),
		MinQuantity:   r.MinQuantity,
		DiscountType:  domain.DiscountType(r.DiscountType),
		DiscountValue: r.DiscountValue,
		Enabled:       r.Enabled,
		SortOrder:     r.SortOrder,
	}
	if len(r.TargetItems) > 0 {
		if err := json.Unmarshal(r.TargetItems, &p.TargetItems); err != nil {
			return p, fmt.Errorf("promotion %d: invalid target items: %w", r.ID, err)
		}
	}
	if r.StartsAt.Valid {
		t := r.StartsAt.Time.In(time.UTC)
		p.StartsAt = &t
	}
	if r.EndsAt.Valid {
		t := r.EndsAt.Time.In(time.UTC)
		p.EndsAt = &t
	}
	return p, nil
}

// ListPromotions implements ports.PromotionStore.
func (c *PostgresCatalog) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, type, target_items, min_quantity, discount_type, discount_value,
		        enabled, starts_at, ends_at, sort_order
		 FROM promotions WHERE enabled = TRUE ORDER BY sort_order, id`)
	if err != nil {
		return nil, apperr.PersistenceErr("query promotions", err)
	}
	defer rows.Close()

	var promotions []domain.Promotion
	for rows.Next() {
		var r promotionRow
		if err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Type,
			&r.TargetItems,
			&r.MinQuantity,
			&r.DiscountType,
			&r.DiscountValue,
			&r.Enabled,
			&r.StartsAt,
			&r.EndsAt,
			&r.SortOrder,
		); err != nil {
			return nil, apperr.PersistenceErr("scan promotion row", err)
		}
		p, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.PersistenceErr("iterate promotion rows", err)
	}

	return promotions, nil
}
