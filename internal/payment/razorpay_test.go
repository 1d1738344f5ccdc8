package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRazorpayClient_CreateOrder(t *testing.T) {
	var gotReq createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(Order{
			ID:       "order_123",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
		})
	}))
	defer server.Close()

	client := NewRazorpayClient("key", "secret", server.URL)

	order, err := client.CreateOrder(context.Background(), 350000, "INR", "SU100-AB12CD")

	assert.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(350000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, 1, gotReq.PaymentCapture)
}

func TestRazorpayClient_CreateOrder_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewRazorpayClient("key", "wrong", server.URL)

	order, err := client.CreateOrder(context.Background(), 100, "INR", "x")

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.Contains(t, err.Error(), "status 401")
}

func TestRazorpayClient_VerifySignature(t *testing.T) {
	client := NewRazorpayClient("key", "secret", "")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_123|pay_456"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("order_123", "pay_456", valid))
	assert.False(t, client.VerifySignature("order_123", "pay_456", "deadbeef"))
	assert.False(t, client.VerifySignature("order_999", "pay_456", valid))
	assert.False(t, client.VerifySignature("order_123", "pay_456", ""))
}
