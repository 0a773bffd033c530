package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTax(t *testing.T) {
	tests := []struct {
		subtotal int
		want     int
	}{
		{0, 0},
		{4598, 368}, // 367.84
		{2499, 200}, // 199.92
		{1850, 148},
		{1000, 80},
		{6, 0}, // 0.48
		{7, 1}, // 0.56
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tax(tt.subtotal), "subtotal %d", tt.subtotal)
	}
}

func TestDueDate(t *testing.T) {
	assert.Equal(t, "2023-07-15", DueDate("2023-06-15"))
	assert.Equal(t, "2024-03-01", DueDate("2024-01-31"))
	assert.Empty(t, DueDate("not-a-date"))
}
