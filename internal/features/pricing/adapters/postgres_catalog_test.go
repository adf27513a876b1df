package adapters

import (
	"context"
	"testing"
	"time"

	"shop-checkout/internal/features/pricing/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*PostgresCatalog, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresCatalog(db), mock
}

func TestPostgresCatalog_GetProducts(t *testing.T) {
	catalog, mock := newCatalog(t)

	mock.ExpectQuery(`FROM products WHERE id = ANY`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "enabled"}).
			AddRow(1, "Dried Mango", 999, true).
			AddRow(2, "Oolong Tea", 320, true))
	mock.ExpectQuery(`FROM product_specs`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "spec_key", "label", "price", "enabled"}).
			AddRow(1, "half", "Half jin", 150, true).
			AddRow(1, "full", nil, 280, true))

	products, err := catalog.GetProducts(context.Background(), []int64{1, 2, 9})
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Len(t, products[1].Specs, 2)
	assert.Equal(t, int64(150), products[1].Specs[0].Price)
	assert.Equal(t, "full", products[1].Specs[1].Label)
	assert.Empty(t, products[2].Specs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_ListPromotions(t *testing.T) {
	catalog, mock := newCatalog(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM promotions WHERE enabled = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "type", "target_items", "min_quantity", "discount_type",
			"discount_value", "enabled", "starts_at", "ends_at", "sort_order",
		}).AddRow(4, "Mango x2", "bundle", []byte(`[{"productId":1,"specKey":""},{"productId":2}]`), 2, "amount", 50.0, true, start, nil, 1))

	promos, err := catalog.ListPromotions(context.Background())
	require.NoError(t, err)
	require.Len(t, promos, 1)
	p := promos[0]
	assert.Equal(t, domain.PromotionTypeBundle, p.Type)
	assert.Equal(t, domain.DiscountAmount, p.DiscountType)
	assert.Len(t, p.TargetItems, 2)
	require.NotNil(t, p.StartsAt)
	assert.True(t, start.Equal(*p.StartsAt))
	assert.Nil(t, p.EndsAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
