package services

import (
	"context"
	"fmt"
	"sync"
)

// MockPaymentVerifier is a PaymentVerifier returning canned results for testing
type MockPaymentVerifier struct {
	results map[string]*PaymentVerification
	errs    map[string]error
	calls   []string
	mu      sync.RWMutex
}

// NewMockPaymentVerifier creates an empty mock verifier
func NewMockPaymentVerifier() *MockPaymentVerifier {
	return &MockPaymentVerifier{
		results: make(map[string]*PaymentVerification),
		errs:    make(map[string]error),
	}
}

// SetResult registers the verification returned for reference, replacing any error
func (m *MockPaymentVerifier) SetResult(reference, status string, amountMinor int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errs, reference)
	m.results[reference] = &PaymentVerification{
		Reference:   reference,
		Status:      status,
		AmountMinor: amountMinor,
		Currency:    "NGN",
	}
}

// SetError makes Verify fail for reference
func (m *MockPaymentVerifier) SetError(reference string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[reference] = err
}

// Verify returns the registered result or an error for unknown references
func (m *MockPaymentVerifier) Verify(ctx context.Context, reference string) (*PaymentVerification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, reference)

	if err, ok := m.errs[reference]; ok {
		return nil, err
	}
	if res, ok := m.results[reference]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, fmt.Errorf("transaction reference not found: %s", reference)
}

// Calls returns the references Verify was called with
func (m *MockPaymentVerifier) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}
