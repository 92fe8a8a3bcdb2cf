package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))

	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test-secret"

	valid := sign("order_123", "pay_456", secret)

	assert.True(t, verifySignature("order_123", "pay_456", valid, secret))
	assert.False(t, verifySignature("order_123", "pay_456", valid, "other-secret"))
	assert.False(t, verifySignature("order_999", "pay_456", valid, secret))
	assert.False(t, verifySignature("order_123", "pay_999", valid, secret))
	assert.False(t, verifySignature("order_123", "pay_456", "deadbeef", secret))
	assert.False(t, verifySignature("order_123", "pay_456", "", secret))
}
