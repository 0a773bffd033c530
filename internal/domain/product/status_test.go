package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		stock int
		want  string
	}{
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{8, StatusLowStock},
		{10, StatusLowStock},
		{11, StatusInStock},
		{120, StatusInStock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatus(tt.stock), "stock %d", tt.stock)
	}
}
