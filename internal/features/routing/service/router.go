package service

import (
	"regexp"
	"strings"

	"shop-checkout/internal/features/routing/domain"
)

var bankLastFivePattern = regexp.MustCompile(`^\d{5}$`)

// Destination carries the method specific fields of a submission.
type Destination struct {
	City         string
	Address      string
	StoreID      string
	StoreName    string
	BankLastFive string
}

// Route checks the delivery and payment pair and returns the shipping fee for the
// post-discount subtotal.
func Route(delivery domain.DeliveryMethod, payment domain.PaymentMethod, cfg *domain.Config, subtotal int64) (int64, *domain.DeliveryOption, error) {
	option, ok := cfg.Option(delivery)
	if !ok || !option.Enabled {
		return 0, nil, domain.ErrDeliveryDisabled.WithMessage("delivery method %q is not available", delivery)
	}

	allowed, known := option.Payments.Allows(payment)
	if !known {
		return 0, nil, domain.ErrUnknownPayment.WithMessage("unknown payment method %q", payment)
	}
	if !allowed {
		return 0, nil, domain.ErrPaymentNotSupported.WithMessage("%s does not accept payment method %q", option.Label, payment)
	}

	return ShippingFee(option, subtotal), option, nil
}

// ShippingFee returns the option fee, waived when the subtotal reaches the free shipping threshold.
func ShippingFee(option *domain.DeliveryOption, subtotal int64) int64 {
	if option.FreeShippingThreshold > 0 && subtotal >= option.FreeShippingThreshold {
		return 0
	}
	return option.Fee
}

// ValidateDestination checks the fields the chosen delivery and payment methods require.
func ValidateDestination(option *domain.DeliveryOption, payment domain.PaymentMethod, dest Destination, cfg *domain.Config) error {
	switch option.Kind {
	case domain.KindHome:
		if strings.TrimSpace(dest.Address) == "" {
			return domain.ErrAddressRequired
		}
		city := strings.TrimSpace(dest.City)
		if city == "" || !cfg.ServesCity(city) {
			return domain.ErrCityNotServed.WithMessage("home delivery is not available in %q", city)
		}
	case domain.KindCourier:
		if strings.TrimSpace(dest.StoreName) == "" {
			return domain.ErrStoreRequired
		}
	}

	if payment == domain.PaymentTransfer && !bankLastFivePattern.MatchString(strings.TrimSpace(dest.BankLastFive)) {
		return domain.ErrBankLastFive
	}
	return nil
}
