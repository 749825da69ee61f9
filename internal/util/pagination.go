package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and size into offset and limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// Meta describes a page; total < 0 means the total is unknown.
func Meta(page, offset, limit int, total int64) map[string]any {
	if page < 1 {
		page = 1
	}
	m := map[string]any{
		"page":     page,
		"size":     limit,
		"has_prev": page > 1,
	}
	if total >= 0 {
		m["total"] = total
		m["total_pages"] = (total + int64(limit) - 1) / int64(limit)
		m["has_next"] = int64(offset+limit) < total
	}
	return m
}
