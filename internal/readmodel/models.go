package readmodel

import "time"

// Collection names in the read store
const (
	Categories = "categories"
	Customers  = "customers"
	Discounts  = "discounts"
	Employees  = "employees"
	Orders     = "orders"
	Products   = "products"
)

// CategoryReadModel is the read model for product categories. ProductCount
// is derived at query time and never stored.
type CategoryReadModel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Active       bool      `json:"active"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CustomerReadModel is the read model for customers; money in cents
type CustomerReadModel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  int       `json:"total_spent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DiscountReadModel is the read model for discounts. DisplayStatus is filled
// in by queries against their clock.
type DiscountReadModel struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Target        string    `json:"target"`
	Value         int       `json:"value"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Status        string    `json:"status"`
	DisplayStatus string    `json:"display_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeReadModel is the read model for employees. Credentials stay in the
// event stream.
type EmployeeReadModel struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	Status      string     `json:"status"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	Bio         string     `json:"bio"`
	AvatarURL   string     `json:"avatar_url"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProductReadModel is the read model for products; prices in cents
type ProductReadModel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CostPrice    int       `json:"cost_price"`
	SellingPrice int       `json:"selling_price"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderItemReadModel represents an item in an order
type OrderItemReadModel struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

// OrderReadModel is the read model for orders
type OrderReadModel struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	Customer   string               `json:"customer"`
	Date       string               `json:"date"`
	Items      []OrderItemReadModel `json:"items"`
	Total      int                  `json:"total"`
	Status     string               `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// New returns a pointer to an empty read model for the collection
func New(collection string) (any, bool) {
	switch collection {
	case Categories:
		return &CategoryReadModel{}, true
	case Customers:
		return &CustomerReadModel{}, true
	case Discounts:
		return &DiscountReadModel{}, true
	case Employees:
		return &EmployeeReadModel{}, true
	case Orders:
		return &OrderReadModel{}, true
	case Products:
		return &ProductReadModel{}, true
	}
	return nil, false
}
