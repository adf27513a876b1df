package domain

import (
	"encoding/json"
	"fmt"

	"shop-checkout/internal/core/apperr"
)

// CurrentVersion is the routing configuration schema version produced by Parse.
const CurrentVersion = 2

var (
	ErrDeliveryDisabled    = apperr.New(apperr.Conflict, "DeliveryDisabled", "delivery method is not available")
	ErrPaymentNotSupported = apperr.New(apperr.Conflict, "PaymentNotSupported", "payment method is not available for this delivery method")
	ErrUnknownPayment      = apperr.New(apperr.Validation, "UnknownPaymentMethod", "unknown payment method")
	ErrAddressRequired     = apperr.New(apperr.Validation, "AddressRequired", "delivery address is required")
	ErrCityNotServed       = apperr.New(apperr.Validation, "CityNotServed", "home delivery is not available in this city")
	ErrStoreRequired       = apperr.New(apperr.Validation, "StoreRequired", "please select a pickup store")
	ErrBankLastFive        = apperr.New(apperr.Validation, "BankLastFiveInvalid", "last five digits of the transfer account are required")
	ErrInvalidConfig       = apperr.New(apperr.Internal, "InvalidRoutingConfig", "routing configuration is invalid")
)

// DeliveryMethod identifies a delivery option.
type DeliveryMethod string

const (
	DeliveryInStore     DeliveryMethod = "in_store"
	DeliveryHome        DeliveryMethod = "delivery"
	DeliverySevenEleven DeliveryMethod = "seven_eleven"
	DeliveryFamilyMart  DeliveryMethod = "family_mart"
)

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "cod"
	PaymentLinePay  PaymentMethod = "linepay"
	PaymentTransfer PaymentMethod = "transfer"
)

// IsOnlineWallet reports whether the method goes through the wallet gateway.
func (p PaymentMethod) IsOnlineWallet() bool {
	return p == PaymentLinePay
}

// DeliveryKind decides which destination fields a method needs.
type DeliveryKind string

const (
	KindPickup  DeliveryKind = "pickup"
	KindHome    DeliveryKind = "home"
	KindCourier DeliveryKind = "courier"
)

// PaymentMatrix lists the payment methods enabled for one delivery option.
type PaymentMatrix struct {
	COD          bool `json:"cod"`
	OnlineWallet bool `json:"onlineWallet"`
	BankTransfer bool `json:"bankTransfer"`
}

// Allows reports whether p is enabled. known is false for an unrecognized method.
func (m PaymentMatrix) Allows(p PaymentMethod) (allowed bool, known bool) {
	switch p {
	case PaymentCOD:
		return m.COD, true
	case PaymentLinePay:
		return m.OnlineWallet, true
	case PaymentTransfer:
		return m.BankTransfer, true
	default:
		return false, false
	}
}

// DeliveryOption is one selectable delivery method.
type DeliveryOption struct {
	ID                    DeliveryMethod `json:"id"`
	Label                 string         `json:"label"`
	Kind                  DeliveryKind   `json:"kind"`
	LogisticsSubType      string         `json:"logisticsSubType,omitempty"`
	Enabled               bool           `json:"enabled"`
	Fee                   int64          `json:"fee"`
	FreeShippingThreshold int64          `json:"freeShippingThreshold"`
	Payments              PaymentMatrix  `json:"payments"`
}

// Config is the parsed delivery and payment routing configuration.
type Config struct {
	Version int              `json:"version"`
	Options []DeliveryOption `json:"options"`
	// DeliveryCities restricts home delivery. Empty means unrestricted.
	DeliveryCities []string `json:"deliveryCities,omitempty"`
}

// Option returns the option with the given id.
func (c *Config) Option(id DeliveryMethod) (*DeliveryOption, bool) {
	for i := range c.Options {
		if c.Options[i].ID == id {
			return &c.Options[i], true
		}
	}
	return nil, false
}

// ServesCity reports whether home delivery reaches city.
func (c *Config) ServesCity(city string) bool {
	if len(c.DeliveryCities) == 0 {
		return true
	}
	for _, allowed := range c.DeliveryCities {
		if allowed == city {
			return true
		}
	}
	return false
}

// Validate checks structural consistency.
func (c *Config) Validate() error {
	seen := make(map[DeliveryMethod]struct{}, len(c.Options))
	for _, o := range c.Options {
		if o.ID == "" {
			return ErrInvalidConfig.WithMessage("delivery option without id")
		}
		if _, dup := seen[o.ID]; dup {
			return ErrInvalidConfig.WithMessage("duplicate delivery option %q", o.ID)
		}
		seen[o.ID] = struct{}{}
		switch o.Kind {
		case KindPickup, KindHome, KindCourier:
		default:
			return ErrInvalidConfig.WithMessage("delivery option %q has unknown kind %q", o.ID, o.Kind)
		}
		if o.Fee < 0 || o.FreeShippingThreshold < 0 {
			return ErrInvalidConfig.WithMessage("delivery option %q has a negative fee or threshold", o.ID)
		}
	}
	return nil
}

// LegacyConfig is the version 1 shape: global toggles plus a single fee and threshold.
type LegacyConfig struct {
	Delivery              map[string]bool `json:"delivery"`
	Payment               map[string]bool `json:"payment"`
	ShippingFee           int64           `json:"shippingFee"`
	FreeShippingThreshold int64           `json:"freeShippingThreshold"`
	DeliveryCities        []string        `json:"deliveryCities"`
}

// knownMethods lists the built-in delivery methods in display order.
var knownMethods = []struct {
	id      DeliveryMethod
	label   string
	kind    DeliveryKind
	subType string
}{
	{DeliveryInStore, "In-store pickup", KindPickup, ""},
	{DeliveryHome, "Home delivery", KindHome, ""},
	{DeliverySevenEleven, "7-ELEVEN pickup", KindCourier, "UNIMARTC2C"},
	{DeliveryFamilyMart, "FamilyMart pickup", KindCourier, "FAMIC2C"},
}

// MigrateLegacy converts a version 1 configuration into per-option payment matrices.
// Pickup is always free; the legacy fee and threshold apply to every shipped method.
func MigrateLegacy(legacy LegacyConfig) Config {
	matrix := PaymentMatrix{
		COD:          legacy.Payment[string(PaymentCOD)],
		OnlineWallet: legacy.Payment[string(PaymentLinePay)],
		BankTransfer: legacy.Payment[string(PaymentTransfer)],
	}

	cfg := Config{
		Version:        CurrentVersion,
		DeliveryCities: legacy.DeliveryCities,
	}
	for _, m := range knownMethods {
		opt := DeliveryOption{
			ID:               m.id,
			Label:            m.label,
			Kind:             m.kind,
			LogisticsSubType: m.subType,
			Enabled:          legacy.Delivery[string(m.id)],
			Payments:         matrix,
		}
		if m.kind != KindPickup {
			opt.Fee = legacy.ShippingFee
			opt.FreeShippingThreshold = legacy.FreeShippingThreshold
		}
		cfg.Options = append(cfg.Options, opt)
	}
	return cfg
}

// DefaultConfig is used when no routing settings have been saved: in-store pickup, cash only.
func DefaultConfig() Config {
	return MigrateLegacy(LegacyConfig{
		Delivery: map[string]bool{string(DeliveryInStore): true},
		Payment:  map[string]bool{string(PaymentCOD): true},
	})
}

// Parse decodes a stored settings blob of either version into the current Config.
func Parse(raw []byte) (Config, error) {
	var versioned struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &versioned); err != nil {
		return Config{}, ErrInvalidConfig.Wrap(fmt.Errorf("decode version: %w", err))
	}

	var cfg Config
	switch versioned.Version {
	case 0, 1:
		var legacy LegacyConfig
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return Config{}, ErrInvalidConfig.Wrap(fmt.Errorf("decode legacy config: %w", err))
		}
		cfg = MigrateLegacy(legacy)
	case CurrentVersion:
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, ErrInvalidConfig.Wrap(fmt.Errorf("decode config: %w", err))
		}
	default:
		return Config{}, ErrInvalidConfig.WithMessage("unsupported routing config version %d", versioned.Version)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
