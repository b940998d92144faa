package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roomblock/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGateway(baseURL string) Gateway {
	return NewRazorpayGateway(utils.PaymentConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   baseURL,
		Currency:  "INR",
		Timeout:   5 * time.Second,
	}, zap.NewNop())
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// 450.50 in the smallest currency unit
		assert.Equal(t, float64(45050), body["amount"])
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_test_1",
			"amount":   45050,
			"currency": "INR",
			"receipt":  body["receipt"],
			"status":   "created",
		})
	}))
	defer server.Close()

	gateway := testGateway(server.URL)

	order, err := gateway.CreateOrder(context.Background(), 450.50, "INR", "BK-TEST-1", nil)

	require.NoError(t, err)
	assert.Equal(t, "order_test_1", order.ID)
	assert.Equal(t, 450.50, order.Amount)
	assert.Equal(t, "BK-TEST-1", order.Receipt)
}

func TestCreateOrder_GatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	gateway := testGateway(server.URL)

	_, err := gateway.CreateOrder(context.Background(), 100, "INR", "BK-TEST-2", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestVerify(t *testing.T) {
	gateway := testGateway("http://unused")

	proof := Proof{
		OrderID:   "order_abc",
		PaymentID: "pay_def",
		Signature: Sign("rzp_test_secret", "order_abc", "pay_def"),
	}
	assert.NoError(t, gateway.Verify(proof))
}

func TestVerify_Tampered(t *testing.T) {
	gateway := testGateway("http://unused")

	cases := []Proof{
		{OrderID: "order_abc", PaymentID: "pay_def", Signature: "forged"},
		{OrderID: "order_abc", PaymentID: "pay_other", Signature: Sign("rzp_test_secret", "order_abc", "pay_def")},
		{OrderID: "order_abc", PaymentID: "pay_def", Signature: Sign("wrong_secret", "order_abc", "pay_def")},
		{},
	}

	for _, proof := range cases {
		assert.ErrorIs(t, gateway.Verify(proof), ErrVerificationFailed)
	}
}
