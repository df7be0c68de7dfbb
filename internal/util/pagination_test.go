package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		from, lim  int
	}{
		{"defaults", 0, 0, 0, DefaultPageSize},
		{"second page", 2, 20, 20, 20},
		{"negative page", -3, 5, 0, 5},
		{"oversized", 1, MaxPageSize + 1, 0, DefaultPageSize},
		{"max", 3, MaxPageSize, 200, MaxPageSize},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			from, lim := Paginate(tt.page, tt.size)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.lim, lim)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("abc", 5))
	assert.Equal(t, 12, ParseIntDefault("12", 5))
	assert.Equal(t, -1, ParseIntDefault("-1", 5))
}
