package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// verifySignature recomputes the provider signature over "orderID|paymentID"
// and compares in constant time.
func verifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))

	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
