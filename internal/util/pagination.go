package util

import (
	"math"
	"strconv"

	"github.com/Skotchmaster/lms/internal/transport"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*size inside int32.
	MaxPage = math.MaxInt32 / MaxPageSize
)

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func Calculate(page, size int) (offset, limit int) {
	page = clampPage(page)
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	offset = (page - 1) * size
	return offset, size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func Meta(page, offset, limit int, total int64) transport.PageMeta {
	page = clampPage(page)
	return transport.PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}
