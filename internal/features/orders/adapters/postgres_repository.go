package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/features/orders/domain"
	paymentsdomain "shop-checkout/internal/features/payments/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PostgresRepository implements ports.OrderRepository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `id, created_at, updated_at, customer_identity, name, phone, email, city, address,
	store_id, store_name, store_address, note, custom_fields, bank_last_five, items_summary,
	subtotal, discount, shipping_fee, total, delivery_method, payment_method,
	delivery_status, payment_status, transaction_id, tracking_number`

type orderRow struct {
	ID               string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CustomerIdentity sql.NullString
	Name             string
	Phone            string
	Email            sql.NullString
	City             sql.NullString
	Address          sql.NullString
	StoreID          sql.NullString
	StoreName        sql.NullString
	StoreAddress     sql.NullString
	Note             sql.NullString
	CustomFields     []byte
	BankLastFive     sql.NullString
	ItemsSummary     string
	Subtotal         int64
	Discount         int64
	ShippingFee      int64
	Total            int64
	DeliveryMethod   string
	PaymentMethod    string
	DeliveryStatus   string
	PaymentStatus    sql.NullString
	TransactionID    sql.NullString
	TrackingNumber   sql.NullString
}

func (r *orderRow) scan(s interface{ Scan(...any) error }) error {
	return s.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CustomerIdentity,
		&r.Name,
		&r.Phone,
		&r.Email,
		&r.City,
		&r.Address,
		&r.StoreID,
		&r.StoreName,
		&r.StoreAddress,
		&r.Note,
		&r.CustomFields,
		&r.BankLastFive,
		&r.ItemsSummary,
		&r.Subtotal,
		&r.Discount,
		&r.ShippingFee,
		&r.Total,
		&r.DeliveryMethod,
		&r.PaymentMethod,
		&r.DeliveryStatus,
		&r.PaymentStatus,
		&r.TransactionID,
		&r.TrackingNumber,
	)
}

func (r *orderRow) toDomain() (*domain.Order, error) {
	o := &domain.Order{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CustomerIdentity: r.CustomerIdentity.String,
		Name:             r.Name,
		Phone:            r.Phone,
		Email:            r.Email.String,
		City:             r.City.String,
		Address:          r.Address.String,
		StoreID:          r.StoreID.String,
		StoreName:        r.StoreName.String,
		StoreAddress:     r.StoreAddress.String,
		Note:             r.Note.String,
		BankLastFive:     r.BankLastFive.String,
		ItemsSummary:     r.ItemsSummary,
		Subtotal:         r.Subtotal,
		Discount:         r.Discount,
		ShippingFee:      r.ShippingFee,
		Total:            r.Total,
		DeliveryMethod:   routingdomain.DeliveryMethod(r.DeliveryMethod),
		PaymentMethod:    routingdomain.PaymentMethod(r.PaymentMethod),
		DeliveryStatus:   domain.DeliveryStatus(r.DeliveryStatus),
		PaymentStatus:    domain.PaymentStatus(r.PaymentStatus.String),
		TransactionID:    paymentsdomain.TransactionID(r.TransactionID.String),
		TrackingNumber:   r.TrackingNumber.String,
	}
	if len(r.CustomFields) > 0 {
		if err := json.Unmarshal(r.CustomFields, &o.CustomFields); err != nil {
			return nil, fmt.Errorf("decode custom fields of order %s: %w", r.ID, err)
		}
	}
	return o, nil
}

// Create implements ports.OrderRepository.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Order) error {
	customFields, err := json.Marshal(o.CustomFields)
	if err != nil {
		return fmt.Errorf("encode custom fields: %w", err)
	}
	if o.CustomFields == nil {
		customFields = nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		o.ID, o.CreatedAt, o.UpdatedAt, o.CustomerIdentity, o.Name, o.Phone, o.Email, o.City, o.Address,
		o.StoreID, o.StoreName, o.StoreAddress, o.Note, customFields, o.BankLastFive, o.ItemsSummary,
		o.Subtotal, o.Discount, o.ShippingFee, o.Total, string(o.DeliveryMethod), string(o.PaymentMethod),
		string(o.DeliveryStatus), string(o.PaymentStatus), o.TransactionID.String(), o.TrackingNumber,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicateOrderID.Wrap(err)
	}
	if err != nil {
		return apperr.PersistenceErr("insert order", err)
	}
	return nil
}

// Get implements ports.OrderRepository.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := row.scan(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, apperr.PersistenceErr("query order", err)
	}
	return row.toDomain()
}

// LatestCreatedAt implements ports.OrderRepository.
func (r *PostgresRepository) LatestCreatedAt(ctx context.Context, identity, phone string) (time.Time, bool, error) {
	query := `SELECT MAX(created_at) FROM orders WHERE phone = $1`
	arg := phone
	if identity != "" {
		query = `SELECT MAX(created_at) FROM orders WHERE customer_identity = $1`
		arg = identity
	}

	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&latest); err != nil {
		return time.Time{}, false, apperr.PersistenceErr("query latest order", err)
	}
	return latest.Time, latest.Valid, nil
}

// Update implements ports.OrderRepository.
func (r *PostgresRepository) Update(ctx context.Context, o *domain.Order, expected domain.StatusSnapshot) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET delivery_status = $1, payment_status = $2, tracking_number = $3, updated_at = $4
		 WHERE id = $5 AND delivery_status = $6 AND COALESCE(payment_status, '') = $7
		 AND COALESCE(tracking_number, '') = $8`,
		string(o.DeliveryStatus), string(o.PaymentStatus), o.TrackingNumber, o.UpdatedAt,
		o.ID, string(expected.DeliveryStatus), string(expected.PaymentStatus), expected.TrackingNumber,
	)
	return checkUpdated(res, err, o.ID)
}

// UpdatePayment implements ports.OrderRepository.
func (r *PostgresRepository) UpdatePayment(ctx context.Context, id string, change domain.PaymentChange) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $1,
		 transaction_id = COALESCE(NULLIF($2, ''), transaction_id),
		 delivery_status = CASE WHEN $3 AND delivery_status = 'pending' THEN 'cancelled' ELSE delivery_status END,
		 updated_at = $4
		 WHERE id = $5 AND COALESCE(payment_status, '') = $6`,
		string(change.To), change.TransactionID.String(), change.CancelPendingDelivery, change.At,
		id, string(change.From),
	)
	return checkUpdated(res, err, id)
}

func checkUpdated(res sql.Result, err error, id string) error {
	if err != nil {
		return apperr.PersistenceErr("update order", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.PersistenceErr("update order", err)
	}
	if n == 0 {
		return domain.ErrConcurrentUpdate.WithMessage("order %s changed before the update was written", id)
	}
	return nil
}

// List implements ports.OrderRepository.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, apperr.PersistenceErr("list orders", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		var row orderRow
		if err := row.scan(rows); err != nil {
			return nil, apperr.PersistenceErr("scan order", err)
		}
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.PersistenceErr("list orders", err)
	}
	return orders, nil
}
