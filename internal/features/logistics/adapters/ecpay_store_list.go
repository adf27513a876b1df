package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shop-checkout/internal/core/apperr"
	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/core/signature"
	"shop-checkout/internal/features/logistics/domain"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const storeListGateway = "ecpay"

type ecpayStoreListResponse struct {
	RtnCode   int    `json:"RtnCode"`
	RtnMsg    string `json:"RtnMsg"`
	StoreInfo []struct {
		CvsType   string `json:"CvsType"`
		StoreInfo []struct {
			StoreID    string `json:"StoreId"`
			StoreName  string `json:"StoreName"`
			StoreAddr  string `json:"StoreAddr"`
			StorePhone string `json:"StorePhone"`
		} `json:"StoreInfo"`
	} `json:"StoreInfo"`
}

// cvsTypes maps a sub-type to the store list network code.
var cvsTypes = map[domain.SubType]string{
	domain.SubTypeSevenEleven: "UNIMART",
	domain.SubTypeFamilyMart:  "FAMI",
}

// ECPayStoreList implements ports.StoreDirectory against the courier's store list API.
type ECPayStoreList struct {
	merchantID string
	hashKey    string
	hashIV     string
	host       string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewECPayStoreList creates a new ECPayStoreList.
func NewECPayStoreList(merchantID, hashKey, hashIV, host string, client *http.Client) *ECPayStoreList {
	return &ECPayStoreList{
		merchantID: merchantID,
		hashKey:    hashKey,
		hashIV:     hashIV,
		host:       strings.TrimRight(host, "/"),
		client:     client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "ecpay-store-list",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Named(storeListGateway).Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// GetStoreList implements ports.StoreDirectory.
func (s *ECPayStoreList) GetStoreList(ctx context.Context, subType domain.SubType) ([]domain.Store, error) {
	cvsType, ok := cvsTypes[subType]
	if !ok {
		return nil, domain.ErrUnknownSubType.WithMessage("unknown convenience store type %q", subType)
	}

	params := map[string]string{
		"MerchantID": s.merchantID,
		"CvsType":    cvsType,
	}
	params[signature.CheckMacValueField] = signature.ECPay(params, s.hashKey, s.hashIV)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	raw, err := s.breaker.Execute(func() ([]byte, error) {
		return s.fetch(ctx, form)
	})
	if err != nil {
		return nil, apperr.GatewayErr(storeListGateway, "", "", err)
	}

	var resp ecpayStoreListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, apperr.GatewayErr(storeListGateway, "", "unreadable store list: "+string(raw), err)
	}
	if resp.RtnCode != 1 {
		return nil, apperr.GatewayErr(storeListGateway, fmt.Sprint(resp.RtnCode), resp.RtnMsg, nil)
	}

	var stores []domain.Store
	for _, group := range resp.StoreInfo {
		for _, st := range group.StoreInfo {
			stores = append(stores, domain.Store{
				ID:      st.StoreID,
				Name:    st.StoreName,
				Address: st.StoreAddr,
				Phone:   st.StorePhone,
			})
		}
	}
	return stores, nil
}

func (s *ECPayStoreList) fetch(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/Helper/GetStoreList", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
