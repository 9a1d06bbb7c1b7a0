package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OrderNumberPrefix starts every generated order number.
const OrderNumberPrefix = "ORD-"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewOrderNumber returns a sortable order number made of the creation time
// and random bits. Numbers generated in the same millisecond stay ordered.
func NewOrderNumber(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return OrderNumberPrefix + ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
