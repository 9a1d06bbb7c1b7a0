package utils

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// LimitOffset parses limit/offset query values, clamping the limit to
// [1, MaxLimit] and the offset to >= 0.
func LimitOffset(limitRaw, offsetRaw string) (limit, offset int) {
	limit = clampLimit(atoiOr(limitRaw, DefaultLimit))
	offset = atoiOr(offsetRaw, 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PageLimit parses 1-based page/limit query values.
func PageLimit(pageRaw, limitRaw string) (page, limit int) {
	page = atoiOr(pageRaw, 1)
	if page < 1 {
		page = 1
	}
	return page, clampLimit(atoiOr(limitRaw, DefaultLimit))
}

// TotalPages returns how many pages of size limit are needed for total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func atoiOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
