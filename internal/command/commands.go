package command

// Category Commands
type CreateCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Active defaults to true when omitted
	Active *bool `json:"active"`
}

type UpdateCategory struct {
	CategoryID  string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type DeleteCategory struct {
	CategoryID string `json:"category_id"`
}

// Customer Commands
type CreateCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

type UpdateCustomer struct {
	CustomerID string `json:"-"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Status     string `json:"status"`
}

type DeleteCustomer struct {
	CustomerID string `json:"customer_id"`
}

// ImportCustomer brings in a customer with existing order totals
type ImportCustomer struct {
	CreateCustomer
	TotalOrders int `json:"total_orders"`
	TotalSpent  int `json:"total_spent"`
}

// Discount Commands

// CreateDiscount targets a category by name, or products by id. ProductIDs
// creates one discount per product; Target alone names a single product id.
type CreateDiscount struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Target     string   `json:"target"`
	ProductIDs []string `json:"product_ids"`
	Value      int      `json:"value"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Status     string   `json:"status"`
}

type UpdateDiscount struct {
	DiscountID string `json:"-"`
	Name       string `json:"name"`
	Value      int    `json:"value"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

type DeleteDiscount struct {
	DiscountID string `json:"discount_id"`
}

// ImportDiscount keeps the target as given, by name
type ImportDiscount struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Target    string `json:"target"`
	Value     int    `json:"value"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// Employee Commands
type CreateEmployee struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
	Password    string   `json:"password"`
}

type UpdateEmployee struct {
	EmployeeID  string   `json:"-"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
}

type DeleteEmployee struct {
	EmployeeID string `json:"employee_id"`
}

// Profile Commands
type UpdateProfile struct {
	EmployeeID string `json:"-"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Bio        string `json:"bio"`
	AvatarURL  string `json:"avatar_url"`
}

type ChangePassword struct {
	EmployeeID      string `json:"-"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Product Commands
type CreateProduct struct {
	ProductID    string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	CostPrice    int    `json:"cost_price"`
	SellingPrice int    `json:"selling_price"`
	Stock        int    `json:"stock"`
}

type UpdateProduct struct {
	ProductID    string `json:"-"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	CostPrice    int    `json:"cost_price"`
	SellingPrice int    `json:"selling_price"`
	Stock        int    `json:"stock"`
}

type AdjustStock struct {
	ProductID string `json:"-"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

// Order Commands
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrder struct {
	CustomerID string      `json:"customer_id"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items"`
}

type UpdateOrderStatus struct {
	OrderID string `json:"-"`
	Status  string `json:"status"`
}

type DeleteOrder struct {
	OrderID string `json:"order_id"`
}

// ImportOrderItem may carry the historic name and price; blanks are looked
// up from the product catalog.
type ImportOrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

type ImportOrder struct {
	OrderID    string            `json:"id"`
	CustomerID string            `json:"customer_id"`
	Date       string            `json:"date"`
	Status     string            `json:"status"`
	Items      []ImportOrderItem `json:"items"`
}
