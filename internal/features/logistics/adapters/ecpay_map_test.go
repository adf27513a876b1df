package adapters

import (
	"testing"

	"shop-checkout/internal/core/signature"
	"shop-checkout/internal/features/logistics/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMerchantID = "2000132"
	testHashKey    = "5294y06JbISpM5x9"
	testHashIV     = "v77hoKGq4kWxNNIS"
)

func TestFirstNonEmpty(t *testing.T) {
	fields := map[string]string{"CVSStoreID": "  ", "storeid": "", "StoreID": "991182", "store_id": "000000"}
	assert.Equal(t, "991182", FirstNonEmpty(fields, storeIDKeys))
	assert.Equal(t, "", FirstNonEmpty(fields, storeNameKeys))
}

func TestECPayMap_BuildMapForm(t *testing.T) {
	m := NewECPayMap(testMerchantID, testHashKey, testHashIV, ECPayHost(true))

	form, err := m.BuildMapForm("tok-1", domain.SubTypeFamilyMart, "https://api.shop.test/logistics/map-callback")
	require.NoError(t, err)
	assert.Equal(t, "https://logistics-stage.ecpay.com.tw/Express/map", form.Action)
	assert.Equal(t, "tok-1", form.Token)
	assert.Equal(t, "FAMIC2C", form.Fields["LogisticsSubType"])
	assert.Equal(t, "CVS", form.Fields["LogisticsType"])
	assert.Equal(t, "N", form.Fields["IsCollection"])
	assert.Equal(t, "tok-1", form.Fields["ExtraData"])
	assert.Equal(t, testMerchantID, form.Fields["MerchantID"])
	assert.True(t, signature.VerifyECPay(form.Fields, testHashKey, testHashIV))

	_, err = m.BuildMapForm("", domain.SubTypeFamilyMart, "https://api.shop.test/cb")
	assert.Error(t, err)
}

func TestECPayMap_ParseCallback(t *testing.T) {
	m := NewECPayMap(testMerchantID, testHashKey, testHashIV, ECPayHost(false))

	t.Run("PrimaryKeys", func(t *testing.T) {
		cb, err := m.ParseCallback(map[string]string{
			"MerchantID":   testMerchantID,
			"CVSStoreID":   "991182",
			"CVSStoreName": "Xinyi Store",
			"CVSAddress":   "No. 7, Sec. 5, Xinyi Rd.",
			"CVSTelephone": "02-2720-0000",
			"ExtraData":    "tok-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok-1", cb.Token)
		assert.Equal(t, domain.Store{ID: "991182", Name: "Xinyi Store", Address: "No. 7, Sec. 5, Xinyi Rd.", Phone: "02-2720-0000"}, cb.Store)
	})

	t.Run("LegacyAliases", func(t *testing.T) {
		cb, err := m.ParseCallback(map[string]string{
			"store_id":      "006598",
			"storename":     "Guangfu Store",
			"store_address": "Guangfu S. Rd.",
			"token":         "tok-2",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok-2", cb.Token)
		assert.Equal(t, "006598", cb.Store.ID)
		assert.Equal(t, "Guangfu Store", cb.Store.Name)
		assert.Equal(t, "Guangfu S. Rd.", cb.Store.Address)
	})

	t.Run("SignedValid", func(t *testing.T) {
		fields := map[string]string{"CVSStoreName": "Xinyi Store", "ExtraData": "tok-3"}
		fields[signature.CheckMacValueField] = signature.ECPay(fields, testHashKey, testHashIV)
		_, err := m.ParseCallback(fields)
		assert.NoError(t, err)
	})

	t.Run("SignedTampered", func(t *testing.T) {
		fields := map[string]string{"CVSStoreName": "Xinyi Store", "ExtraData": "tok-3"}
		fields[signature.CheckMacValueField] = signature.ECPay(fields, testHashKey, testHashIV)
		fields["CVSStoreName"] = "Other Store"
		_, err := m.ParseCallback(fields)
		assert.ErrorIs(t, err, domain.ErrCheckMacMismatch)
	})

	t.Run("MissingToken", func(t *testing.T) {
		_, err := m.ParseCallback(map[string]string{"CVSStoreName": "Xinyi Store"})
		assert.ErrorIs(t, err, domain.ErrInvalidCallback)
	})

	t.Run("MissingStore", func(t *testing.T) {
		_, err := m.ParseCallback(map[string]string{"ExtraData": "tok"})
		assert.ErrorIs(t, err, domain.ErrInvalidCallback)
	})
}
