package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sharpfade/barber-booking-api/config"
)

// PaymentVerification is the provider's view of a transaction.
type PaymentVerification struct {
	Reference   string
	Status      string // "success" when the charge settled
	AmountMinor int64
	Currency    string
}

// PaymentVerifier checks a payment reference with the payment provider.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string) (*PaymentVerification, error)
}

// PaystackService verifies transactions against the Paystack API.
type PaystackService struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewPaystackService creates a verifier from configuration.
func NewPaystackService(cfg *config.Config) *PaystackService {
	return &PaystackService{
		baseURL:   strings.TrimRight(cfg.PaystackBaseURL, "/"),
		secretKey: cfg.PaystackSecretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// Verify calls GET /transaction/verify/:reference.
func (p *PaystackService) Verify(ctx context.Context, reference string) (*PaymentVerification, error) {
	if p.secretKey == "" {
		return nil, fmt.Errorf("paystack secret key is not configured")
	}

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read paystack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify returned %d", resp.StatusCode)
	}

	var parsed paystackVerifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response: %w", err)
	}
	if !parsed.Status {
		return nil, fmt.Errorf("paystack verify failed: %s", parsed.Message)
	}

	return &PaymentVerification{
		Reference:   parsed.Data.Reference,
		Status:      parsed.Data.Status,
		AmountMinor: parsed.Data.Amount,
		Currency:    parsed.Data.Currency,
	}, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header, an
// HMAC-SHA512 of the raw body keyed with the secret key.
func VerifyWebhookSignature(secretKey string, body []byte, signature string) bool {
	if secretKey == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}
