package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/auth"
	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/features/orders/domain"
	"shop-checkout/internal/features/orders/ports"
	paymentsdomain "shop-checkout/internal/features/payments/domain"
	paymentsports "shop-checkout/internal/features/payments/ports"
	pricingdomain "shop-checkout/internal/features/pricing/domain"
	routingdomain "shop-checkout/internal/features/routing/domain"
	routingservice "shop-checkout/internal/features/routing/service"
	usersdomain "shop-checkout/internal/features/users/domain"
	usersports "shop-checkout/internal/features/users/ports"

	"go.uber.org/zap"
)

// DefaultDuplicateWindow is how long a customer must wait between two submissions.
const DefaultDuplicateWindow = 60 * time.Second

const (
	confirmPath = "/payments/linepay/confirm"
	cancelPath  = "/payments/linepay/cancel"
)

// Config holds the order service settings.
type Config struct {
	// PublicBaseURL prefixes the wallet confirm and cancel callback urls.
	PublicBaseURL   string
	Currency        string
	DuplicateWindow time.Duration
	// Location renders the timestamp part of order ids.
	Location *time.Location
}

// OrderService implements ports.OrderService.
type OrderService struct {
	repo     ports.OrderRepository
	quoter   ports.Quoter
	routing  ports.RoutingConfigSource
	users    usersports.UserDirectory
	wallet   paymentsports.WalletGateway
	notifier ports.Notifier
	cfg      Config
	ids      *domain.IDGenerator
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	repo ports.OrderRepository,
	quoter ports.Quoter,
	routing ports.RoutingConfigSource,
	users usersports.UserDirectory,
	wallet paymentsports.WalletGateway,
	notifier ports.Notifier,
	cfg Config,
) *OrderService {
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = DefaultDuplicateWindow
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &OrderService{
		repo:     repo,
		quoter:   quoter,
		routing:  routing,
		users:    users,
		wallet:   wallet,
		notifier: notifier,
		cfg:      cfg,
		ids:      domain.NewIDGenerator(cfg.Location),
		now:      time.Now,
	}
}

// Submit implements ports.OrderService.
func (s *OrderService) Submit(ctx context.Context, customer string, sub domain.Submission) (*domain.Receipt, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Phone = usersdomain.NormalizePhone(sub.Phone)
	if sub.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if sub.Phone == "" {
		return nil, domain.ErrPhoneRequired
	}

	if err := s.checkBlacklist(ctx, customer, sub.Phone); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.checkDuplicate(ctx, customer, sub.Phone, now); err != nil {
		return nil, err
	}

	quote, err := s.quoter.Quote(ctx, sub.Items, now)
	if err != nil {
		return nil, err
	}

	routing, err := s.routing.Current(ctx)
	if err != nil {
		return nil, err
	}

	shippingFee, option, err := routingservice.Route(sub.DeliveryMethod, sub.PaymentMethod, routing, quote.DiscountedSubtotal())
	if err != nil {
		return nil, err
	}

	dest := routingservice.Destination{
		City:         sub.City,
		Address:      sub.Address,
		StoreID:      sub.StoreID,
		StoreName:    sub.StoreName,
		BankLastFive: sub.BankLastFive,
	}
	if err := routingservice.ValidateDestination(option, sub.PaymentMethod, dest, routing); err != nil {
		return nil, err
	}

	order := newOrder(sub, option, quote, shippingFee)
	order.ID = s.ids.Next(now)
	order.CreatedAt = now
	order.UpdatedAt = now
	order.CustomerIdentity = customer

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.Get().Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int64("total", order.Total),
		zap.String("delivery", string(order.DeliveryMethod)),
		zap.String("payment", string(order.PaymentMethod)),
	)

	receipt := &domain.Receipt{OrderID: order.ID, Total: order.Total}

	if order.UsesWallet() {
		session, err := s.requestPayment(ctx, order)
		if err != nil {
			return nil, err
		}
		receipt.PaymentURL = session.PaymentURL
		receipt.TransactionID = session.TransactionID
	} else {
		s.notifier.OrderConfirmed(ctx, order)
	}

	if customer != "" {
		s.saveDefaults(ctx, customer, order)
	}

	return receipt, nil
}

func newOrder(sub domain.Submission, option *routingdomain.DeliveryOption, quote *pricingdomain.Quote, shippingFee int64) *domain.Order {
	order := &domain.Order{
		Name:           sub.Name,
		Phone:          sub.Phone,
		Email:          strings.TrimSpace(sub.Email),
		Note:           strings.TrimSpace(sub.Note),
		CustomFields:   sub.CustomFields,
		ItemsSummary:   domain.ItemsSummary(quote, shippingFee),
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		ShippingFee:    shippingFee,
		Total:          domain.Totals(quote.Subtotal, quote.Discount, shippingFee),
		DeliveryMethod: option.ID,
		PaymentMethod:  sub.PaymentMethod,
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.InitialPaymentStatus(sub.PaymentMethod),
	}

	switch option.Kind {
	case routingdomain.KindHome:
		order.City = strings.TrimSpace(sub.City)
		order.Address = strings.TrimSpace(sub.Address)
	case routingdomain.KindCourier:
		order.StoreID = strings.TrimSpace(sub.StoreID)
		order.StoreName = strings.TrimSpace(sub.StoreName)
		order.StoreAddress = strings.TrimSpace(sub.StoreAddress)
	}
	if sub.PaymentMethod == routingdomain.PaymentTransfer {
		order.BankLastFive = strings.TrimSpace(sub.BankLastFive)
	}
	return order
}

func (s *OrderService) checkBlacklist(ctx context.Context, customer, phone string) error {
	if customer != "" {
		user, err := s.users.GetUser(ctx, customer)
		switch {
		case errors.Is(err, usersdomain.ErrUserNotFound):
		case err != nil:
			return err
		case user.Blacklisted:
			return user.BlockedError()
		}
	}

	user, err := s.users.FindBlacklistedByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user != nil {
		return user.BlockedError()
	}
	return nil
}

func (s *OrderService) checkDuplicate(ctx context.Context, customer, phone string, now time.Time) error {
	latest, found, err := s.repo.LatestCreatedAt(ctx, customer, phone)
	if err != nil {
		return err
	}
	if found && now.Sub(latest) < s.cfg.DuplicateWindow {
		return domain.ErrTooFrequent
	}
	return nil
}

// requestPayment opens the wallet payment. The order is kept on failure and marked failed only when
// the gateway declined the request.
func (s *OrderService) requestPayment(ctx context.Context, order *domain.Order) (*paymentsdomain.PaymentSession, error) {
	orderID := url.QueryEscape(order.ID)
	session, err := s.wallet.RequestPayment(ctx, paymentsdomain.PaymentRequest{
		OrderID:  order.ID,
		Amount:   order.Total,
		Currency: s.cfg.Currency,
		Products: []paymentsdomain.Product{{
			Name:     fmt.Sprintf("Order %s", order.ID),
			Quantity: 1,
			Price:    order.Total,
		}},
		ConfirmURL: s.cfg.PublicBaseURL + confirmPath + "?orderId=" + orderID,
		CancelURL:  s.cfg.PublicBaseURL + cancelPath + "?orderId=" + orderID,
	})
	if err != nil {
		logger.Get().Warn("Wallet payment request failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		if gatewayDeclined(err) {
			s.transitionPayment(ctx, order, domain.PaymentFailed)
		}
		return nil, err
	}

	change := domain.PaymentChange{
		From:          domain.PaymentPending,
		To:            domain.PaymentPending,
		TransactionID: session.TransactionID,
		At:            s.now(),
	}
	if err := s.repo.UpdatePayment(ctx, order.ID, change); err != nil {
		return nil, err
	}
	change.Apply(order)
	return session, nil
}

// gatewayDeclined reports whether the gateway answered with a failure result. Transport errors,
// timeouts and an open breaker carry no upstream code and leave the payment pending.
func gatewayDeclined(err error) bool {
	return apperr.KindOf(err) == apperr.Gateway && apperr.UpstreamCodeOf(err) != ""
}

// transitionPayment records a best effort payment status change.
func (s *OrderService) transitionPayment(ctx context.Context, order *domain.Order, to domain.PaymentStatus) {
	change := domain.PaymentChange{From: order.PaymentStatus, To: to, At: s.now()}
	if err := s.repo.UpdatePayment(ctx, order.ID, change); err != nil {
		logger.Get().Error("Failed to record payment status",
			zap.String("order_id", order.ID),
			zap.String("status", string(to)),
			zap.Error(err),
		)
		return
	}
	change.Apply(order)
}

func (s *OrderService) saveDefaults(ctx context.Context, customer string, order *domain.Order) {
	defaults := usersdomain.DeliveryDefaults{
		Name:           order.Name,
		Phone:          order.Phone,
		City:           order.City,
		Address:        order.Address,
		StoreID:        order.StoreID,
		StoreName:      order.StoreName,
		StoreAddress:   order.StoreAddress,
		DeliveryMethod: string(order.DeliveryMethod),
	}
	if err := s.users.SaveDeliveryDefaults(ctx, customer, defaults); err != nil {
		logger.Get().Warn("Failed to save delivery defaults",
			zap.String("customer", customer),
			zap.Error(err),
		)
	}
}

// Get implements ports.OrderService.
func (s *OrderService) Get(ctx context.Context, id string, viewer *auth.Identity) (*domain.Order, error) {
	if viewer == nil {
		return nil, auth.ErrNotLoggedIn
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && !order.OwnedBy(viewer.ExternalID) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// List implements ports.OrderService.
func (s *OrderService) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}

// UpdateStatus implements ports.OrderService.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Order, error) {
	if !update.DeliveryStatus.Valid() {
		return nil, domain.ErrInvalidStatus.WithMessage("unknown delivery status %q", update.DeliveryStatus)
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		return nil, domain.ErrInvalidStatus.WithMessage("unknown payment status %q", *update.PaymentStatus)
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Snapshot()

	if update.DeliveryStatus != order.DeliveryStatus {
		if !order.DeliveryStatus.CanTransitionTo(update.DeliveryStatus) {
			return nil, domain.ErrInvalidTransition.WithMessage("delivery status cannot change from %q to %q", order.DeliveryStatus, update.DeliveryStatus)
		}
	}
	shipped := update.DeliveryStatus == domain.DeliveryShipped && order.DeliveryStatus != domain.DeliveryShipped

	if update.PaymentStatus != nil && *update.PaymentStatus != order.PaymentStatus {
		next := *update.PaymentStatus
		if !order.PaymentStatus.CanTransitionTo(next) {
			return nil, domain.ErrInvalidTransition.WithMessage("payment status cannot change from %q to %q", order.PaymentStatus, next)
		}
		if next == domain.PaymentRefunded && order.UsesWallet() {
			return nil, domain.ErrInvalidTransition.WithMessage("wallet payments are refunded through the refund endpoint")
		}
		order.PaymentStatus = next
	}

	order.DeliveryStatus = update.DeliveryStatus
	if update.TrackingNumber != nil {
		order.TrackingNumber = strings.TrimSpace(*update.TrackingNumber)
	}
	order.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, order, expected); err != nil {
		return nil, err
	}

	logger.Get().Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("delivery_status", string(order.DeliveryStatus)),
		zap.String("payment_status", string(order.PaymentStatus)),
	)

	if shipped {
		s.notifier.OrderShipped(ctx, order)
	}
	return order, nil
}

// ConfirmPayment implements ports.OrderService.
func (s *OrderService) ConfirmPayment(ctx context.Context, id string, tx paymentsdomain.TransactionID) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.UsesWallet() {
		return nil, domain.ErrNotWalletOrder
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return order, nil
	}
	if order.PaymentStatus != domain.PaymentPending {
		return nil, domain.ErrInvalidTransition.WithMessage("payment is %s", order.PaymentStatus)
	}
	if tx.IsZero() {
		tx = order.TransactionID
	}
	if tx.IsZero() || (!order.TransactionID.IsZero() && tx != order.TransactionID) {
		return nil, domain.ErrTransactionMismatch
	}

	if _, err := s.wallet.ConfirmPayment(ctx, tx, order.Total, s.cfg.Currency); err != nil {
		logger.Get().Warn("Wallet confirm failed",
			zap.String("order_id", order.ID),
			zap.String("transaction_id", tx.String()),
			zap.Error(err),
		)
		if gatewayDeclined(err) {
			s.transitionPayment(ctx, order, domain.PaymentFailed)
		}
		return nil, err
	}

	change := domain.PaymentChange{
		From:          domain.PaymentPending,
		To:            domain.PaymentPaid,
		TransactionID: tx,
		At:            s.now(),
	}
	if err := s.repo.UpdatePayment(ctx, order.ID, change); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return s.reloadPaid(ctx, id, err)
		}
		return nil, err
	}
	change.Apply(order)

	logger.Get().Info("Wallet payment confirmed", zap.String("order_id", order.ID))
	s.notifier.OrderConfirmed(ctx, order)
	return order, nil
}

// reloadPaid resolves a lost race against a concurrent confirm of the same order.
func (s *OrderService) reloadPaid(ctx context.Context, id string, cause error) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return order, nil
	}
	return nil, cause
}

// CancelPayment implements ports.OrderService.
func (s *OrderService) CancelPayment(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.UsesWallet() {
		return nil, domain.ErrNotWalletOrder
	}
	if order.PaymentStatus != domain.PaymentPending {
		return order, nil
	}

	if !order.TransactionID.IsZero() {
		if err := s.wallet.VoidPayment(ctx, order.TransactionID); err != nil {
			logger.Get().Warn("Wallet void failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	change := domain.PaymentChange{
		From:                  domain.PaymentPending,
		To:                    domain.PaymentCancelled,
		CancelPendingDelivery: true,
		At:                    s.now(),
	}
	if err := s.repo.UpdatePayment(ctx, order.ID, change); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return s.repo.Get(ctx, id)
		}
		return nil, err
	}
	change.Apply(order)

	logger.Get().Info("Wallet payment cancelled", zap.String("order_id", order.ID))
	return order, nil
}

// Refund implements ports.OrderService.
func (s *OrderService) Refund(ctx context.Context, id string, amount int64) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.UsesWallet() || order.PaymentStatus != domain.PaymentPaid {
		return nil, domain.ErrRefundNotAllowed
	}

	refund, err := s.wallet.RefundPayment(ctx, order.TransactionID, amount)
	if err != nil {
		return nil, err
	}

	change := domain.PaymentChange{From: domain.PaymentPaid, To: domain.PaymentRefunded, At: s.now()}
	if err := s.repo.UpdatePayment(ctx, order.ID, change); err != nil {
		return nil, err
	}
	change.Apply(order)

	logger.Get().Info("Wallet payment refunded",
		zap.String("order_id", order.ID),
		zap.String("refund_transaction_id", refund.RefundTransactionID.String()),
		zap.Int64("amount", amount),
	)
	return order, nil
}
