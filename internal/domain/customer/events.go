package customer

import "time"

const (
	EventCustomerCreated = "CustomerCreated"
	EventCustomerUpdated = "CustomerUpdated"
	EventCustomerDeleted = "CustomerDeleted"
)

// CustomerCreated carries opening balances; they are zero unless imported
type CustomerCreated struct {
	CustomerID  string    `json:"customer_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Status      string    `json:"status"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  int       `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
}

type CustomerUpdated struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CustomerDeleted struct {
	CustomerID string    `json:"customer_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}
