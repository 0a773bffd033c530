package order

import "time"

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderImported      = "OrderImported"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderDeleted       = "OrderDeleted"
)

// LineItem copies the product name and unit price at order time
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

// OrderCreated is emitted for orders entered through the back office; the
// customer's order totals follow it.
type OrderCreated struct {
	OrderID    string     `json:"order_id"`
	CustomerID string     `json:"customer_id"`
	Customer   string     `json:"customer"`
	Date       string     `json:"date"`
	Items      []LineItem `json:"items"`
	Total      int        `json:"total"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OrderImported has the OrderCreated shape but leaves customer totals alone,
// since imported customers already carry them.
type OrderImported OrderCreated

type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type OrderDeleted struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      int       `json:"total"`
	DeletedAt  time.Time `json:"deleted_at"`
}
