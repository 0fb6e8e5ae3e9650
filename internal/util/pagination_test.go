package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		page, size         int
		wantOffset, wantLn int
	}{
		{name: "defaults", page: 0, size: 0, wantOffset: 0, wantLn: DefaultPageSize},
		{name: "third page", page: 3, size: 10, wantOffset: 20, wantLn: 10},
		{name: "capped", page: 1, size: 1000, wantOffset: 0, wantLn: MaxPageSize},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			off, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, off)
			assert.Equal(t, tt.wantLn, lim)
		})
	}
}

func TestCalculate_HugePageDoesNotOverflow(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 6, MaxPageSize, 1000} {
		off, lim := Calculate(math.MaxInt, size)
		assert.Positive(t, off, "size=%d", size)
		assert.LessOrEqual(t, off, math.MaxInt-lim, "size=%d", size)
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	p := NewPage[int](nil, 2, 10, 10, 25)
	assert.Equal(t, []int{}, p.Data)
	assert.Equal(t, int64(3), p.Meta.TotalPages)
	assert.True(t, p.Meta.HasPrev)
	assert.True(t, p.Meta.HasNext)

	p = NewPage([]int{1}, 3, 20, 10, 21)
	assert.False(t, p.Meta.HasNext)
}
