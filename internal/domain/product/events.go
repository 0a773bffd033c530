package product

import "time"

const (
	EventProductCreated       = "ProductCreated"
	EventProductUpdated       = "ProductUpdated"
	EventProductStockAdjusted = "ProductStockAdjusted"
	EventProductDeleted       = "ProductDeleted"
)

// ProductCreated carries the stock status derived at write time
type ProductCreated struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CostPrice    int       `json:"cost_price"`
	SellingPrice int       `json:"selling_price"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProductUpdated struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CostPrice    int       `json:"cost_price"`
	SellingPrice int       `json:"selling_price"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProductStockAdjusted struct {
	ProductID  string    `json:"product_id"`
	Delta      int       `json:"delta"`
	Stock      int       `json:"stock"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
