package adapters

import (
	"strings"

	"shop-checkout/internal/core/signature"
	"shop-checkout/internal/features/logistics/domain"
)

const (
	ecpayStageHost      = "https://logistics-stage.ecpay.com.tw"
	ecpayProductionHost = "https://logistics.ecpay.com.tw"
)

// ECPayHost selects the logistics API host.
func ECPayHost(sandbox bool) string {
	if sandbox {
		return ecpayStageHost
	}
	return ecpayProductionHost
}

// Callback field aliases, tried in order. Older store pickers and proxies post different names.
var (
	tokenKeys        = []string{"ExtraData", "extraData", "extra_data", "token"}
	storeIDKeys      = []string{"CVSStoreID", "storeid", "StoreID", "store_id"}
	storeNameKeys    = []string{"CVSStoreName", "storename", "StoreName", "store_name"}
	storeAddressKeys = []string{"CVSAddress", "storeaddress", "StoreAddress", "store_address", "address"}
	storePhoneKeys   = []string{"CVSTelephone", "storephone", "StorePhone", "store_phone"}
)

// FirstNonEmpty returns the first non-blank value among keys.
func FirstNonEmpty(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(fields[k]); v != "" {
			return v
		}
	}
	return ""
}

// ECPayMap implements ports.CourierMapGateway.
type ECPayMap struct {
	merchantID string
	hashKey    string
	hashIV     string
	host       string
}

// NewECPayMap creates a new ECPayMap.
func NewECPayMap(merchantID, hashKey, hashIV, host string) *ECPayMap {
	return &ECPayMap{
		merchantID: merchantID,
		hashKey:    hashKey,
		hashIV:     hashIV,
		host:       strings.TrimRight(host, "/"),
	}
}

// BuildMapForm implements ports.CourierMapGateway.
func (m *ECPayMap) BuildMapForm(token string, subType domain.SubType, replyURL string) (*domain.MapForm, error) {
	if token == "" || replyURL == "" {
		return nil, domain.ErrInvalidCallback.WithMessage("map session requires a token and reply url")
	}

	fields := map[string]string{
		"MerchantID":       m.merchantID,
		"LogisticsType":    "CVS",
		"LogisticsSubType": string(subType),
		"IsCollection":     "N",
		"ServerReplyURL":   replyURL,
		"ExtraData":        token,
		"Device":           "0",
	}
	fields[signature.CheckMacValueField] = signature.ECPay(fields, m.hashKey, m.hashIV)

	return &domain.MapForm{
		Token:  token,
		Action: m.host + "/Express/map",
		Fields: fields,
	}, nil
}

// ParseCallback implements ports.CourierMapGateway. A CheckMacValue is verified when present.
func (m *ECPayMap) ParseCallback(fields map[string]string) (*domain.Callback, error) {
	if _, signed := fields[signature.CheckMacValueField]; signed {
		if !signature.VerifyECPay(fields, m.hashKey, m.hashIV) {
			return nil, domain.ErrCheckMacMismatch
		}
	}

	cb := &domain.Callback{
		Token: FirstNonEmpty(fields, tokenKeys),
		Store: domain.Store{
			ID:      FirstNonEmpty(fields, storeIDKeys),
			Name:    FirstNonEmpty(fields, storeNameKeys),
			Address: FirstNonEmpty(fields, storeAddressKeys),
			Phone:   FirstNonEmpty(fields, storePhoneKeys),
		},
	}

	if cb.Token == "" {
		return nil, domain.ErrInvalidCallback.WithMessage("courier callback is missing the session token")
	}
	if cb.Store.Name == "" {
		return nil, domain.ErrInvalidCallback.WithMessage("courier callback is missing the store name")
	}
	return cb, nil
}
