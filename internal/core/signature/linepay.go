// Package signature implements the canonical-string signing schemes of the external gateways.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// LinePay signs a LINE Pay v3 request.
//
// The signed message is channelSecret + apiPath + payload + nonce, where payload is the JSON body
// for POST requests and the raw query string for GET requests.
func LinePay(channelSecret, apiPath, payload, nonce string) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write([]byte(channelSecret + apiPath + payload + nonce))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyLinePay reports whether sig is a valid LinePay signature, compared in constant time.
func VerifyLinePay(channelSecret, apiPath, payload, nonce, sig string) bool {
	expected := LinePay(channelSecret, apiPath, payload, nonce)
	return hmac.Equal([]byte(expected), []byte(sig))
}
