package signature

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// CheckMacValueField is the parameter carrying the signature; it never takes part in signing.
const CheckMacValueField = "CheckMacValue"

// dotNetEncoding undoes the escapes that differ between url.QueryEscape and the
// HttpUtility.UrlEncode output the logistics gateway hashes against.
var dotNetEncoding = strings.NewReplacer(
	"%2D", "-",
	"%5F", "_",
	"%2E", ".",
	"%21", "!",
	"%2A", "*",
	"%28", "(",
	"%29", ")",
	"~", "%7E",
)

// ECPayCanonical builds the pre-hash string: keys sorted case-insensitively, wrapped in
// HashKey/HashIV, legacy URL encoded and lowercased.
func ECPayCanonical(params map[string]string, hashKey, hashIV string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == CheckMacValueField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li == lj {
			return keys[i] < keys[j]
		}
		return li < lj
	})

	var b strings.Builder
	b.WriteString("HashKey=")
	b.WriteString(hashKey)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteString("&HashIV=")
	b.WriteString(hashIV)

	return strings.ToLower(dotNetEncoding.Replace(url.QueryEscape(b.String())))
}

// ECPay computes the CheckMacValue for params.
func ECPay(params map[string]string, hashKey, hashIV string) string {
	sum := sha256.Sum256([]byte(ECPayCanonical(params, hashKey, hashIV)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyECPay checks the CheckMacValue carried inside params.
func VerifyECPay(params map[string]string, hashKey, hashIV string) bool {
	got := strings.ToUpper(params[CheckMacValueField])
	if got == "" {
		return false
	}
	want := ECPay(params, hashKey, hashIV)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
