package repository_test

import (
	"math"
	"testing"

	"swapcircle-backend/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		page, size int32
		wantLimit  int32
		wantOffset int32
	}{
		{"Defaults", 0, 0, repository.DefaultPageSize, 0},
		{"OversizedPage", 1, 500, repository.DefaultPageSize, 0},
		{"ThirdPage", 3, 10, 10, 20},
		{"OffsetPastInt32", 107374185, 20, 20, math.MaxInt32},
		{"MaxPage", math.MaxInt32, repository.MaxPageSize, repository.MaxPageSize, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := repository.PageWindow(tt.page, tt.size)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
			assert.GreaterOrEqual(t, offset, int32(0))
		})
	}
}
