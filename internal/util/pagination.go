package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Paginate turns a 1-based page and a page size into an offset and limit.
// Out of range sizes fall back to DefaultPageSize.
func Paginate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
