package product

const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// LowStockThreshold is the highest stock level still reported as Low Stock
const LowStockThreshold = 10

// StockStatus derives the status stored with a product from its stock level
func StockStatus(stock int) string {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
