package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"roomblock/pkg/utils"

	"go.uber.org/zap"
)

// razorpayGateway talks to a Razorpay-compatible REST API.
// Orders are created over HTTP; proofs are verified locally with
// HMAC-SHA256(orderID|paymentID, keySecret).
type razorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	log       *zap.Logger
}

func NewRazorpayGateway(config utils.PaymentConfig, log *zap.Logger) Gateway {
	return &razorpayGateway{
		keyID:     config.KeyID,
		keySecret: config.KeySecret,
		baseURL:   config.BaseURL,
		client:    &http.Client{Timeout: config.Timeout},
		log:       log.With(zap.String("gateway", "razorpay")),
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"` // smallest currency unit
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*Order, error) {
	payload := createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("Order creation request failed", zap.Error(err), zap.String("receipt", receipt))
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		g.log.Error("Order creation rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("receipt", receipt),
			zap.ByteString("body", raw),
		)
		return nil, fmt.Errorf("create order: gateway returned status %d", resp.StatusCode)
	}

	var orderResp createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	g.log.Info("Gateway order created",
		zap.String("order_id", orderResp.ID),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
		zap.String("receipt", receipt),
	)

	return &Order{
		ID:       orderResp.ID,
		Amount:   float64(orderResp.Amount) / 100,
		Currency: orderResp.Currency,
		Receipt:  orderResp.Receipt,
	}, nil
}

func (g *razorpayGateway) Verify(proof Proof) error {
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return ErrVerificationFailed
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(proof.OrderID + "|" + proof.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(proof.Signature)) {
		g.log.Warn("Payment signature mismatch",
			zap.String("order_id", proof.OrderID),
			zap.String("payment_id", proof.PaymentID),
		)
		return ErrVerificationFailed
	}

	return nil
}

// Sign computes the signature the gateway would produce for an
// order/payment pair. Exposed for tests and sandbox tooling.
func Sign(keySecret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
