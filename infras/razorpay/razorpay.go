package razorpay

//go:generate go run go.uber.org/mock/mockgen -source=./razorpay.go -destination=./mocks/razorpay_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lodge/config"

	"github.com/rs/zerolog/log"
)

// Order is the provider-side payment order. Amount is in the minor currency
// unit (paise for INR), matching what the provider expects on the wire.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error)
}

type clientImpl struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func New(config *config.Config) Client {
	return &clientImpl{
		baseURL:   config.Payment.Razorpay.BaseURL,
		keyID:     config.Payment.Razorpay.KeyID,
		keySecret: config.Payment.Razorpay.KeySecret,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Payment.Razorpay.TimeoutSeconds) * time.Second,
		},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (c *clientImpl) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (order Order, err error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return order, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return order, fmt.Errorf("failed to build order request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("payment order request failed")

		return order, fmt.Errorf("failed to create payment order: %w", err)
	}

	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		log.Error().Int("status", res.StatusCode).Bytes("body", payload).Msg("payment provider rejected order")

		return order, fmt.Errorf("payment provider returned status %d", res.StatusCode)
	}

	if err = json.NewDecoder(res.Body).Decode(&order); err != nil {
		return order, fmt.Errorf("failed to decode order response: %w", err)
	}

	return order, nil
}
