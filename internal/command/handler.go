package command

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/example/herbal-backoffice/internal/domain/category"
	"github.com/example/herbal-backoffice/internal/domain/customer"
	"github.com/example/herbal-backoffice/internal/domain/discount"
	"github.com/example/herbal-backoffice/internal/domain/employee"
	"github.com/example/herbal-backoffice/internal/domain/order"
	"github.com/example/herbal-backoffice/internal/domain/product"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/query"
)

var ErrEmailTaken = errors.New("email is already in use")

// Services bundles the domain services the handler drives
type Services struct {
	Categories *category.Service
	Customers  *customer.Service
	Discounts  *discount.Service
	Employees  *employee.Service
	Orders     *order.Service
	Products   *product.Service
}

// NewServices builds every domain service over one event store
func NewServices(es store.EventStoreInterface) Services {
	return Services{
		Categories: category.NewService(es),
		Customers:  customer.NewService(es),
		Discounts:  discount.NewService(es),
		Employees:  employee.NewService(es),
		Orders:     order.NewService(es),
		Products:   product.NewService(es),
	}
}

type Handler struct {
	svc     Services
	queries *query.Handler
}

// NewHandler wires the services to the read store used for lookups
// (product prices, customer names, employee emails).
func NewHandler(services Services, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		svc:     services,
		queries: query.NewHandler(readStore),
	}
}

// Categories

func (h *Handler) CreateCategory(ctx context.Context, cmd CreateCategory) (*category.Category, error) {
	active := true
	if cmd.Active != nil {
		active = *cmd.Active
	}
	return h.svc.Categories.Create(ctx, cmd.Name, cmd.Description, active)
}

func (h *Handler) UpdateCategory(ctx context.Context, cmd UpdateCategory) error {
	return h.svc.Categories.Update(ctx, cmd.CategoryID, cmd.Name, cmd.Description, cmd.Active)
}

func (h *Handler) DeleteCategory(ctx context.Context, cmd DeleteCategory) error {
	return h.svc.Categories.Delete(ctx, cmd.CategoryID)
}

// Customers

func (h *Handler) CreateCustomer(ctx context.Context, cmd CreateCustomer) (*customer.Customer, error) {
	return h.svc.Customers.Create(ctx, customerDetails(cmd))
}

func (h *Handler) ImportCustomer(ctx context.Context, cmd ImportCustomer) (*customer.Customer, error) {
	return h.svc.Customers.Import(ctx, customerDetails(cmd.CreateCustomer), cmd.TotalOrders, cmd.TotalSpent)
}

func (h *Handler) UpdateCustomer(ctx context.Context, cmd UpdateCustomer) error {
	return h.svc.Customers.Update(ctx, cmd.CustomerID, customer.Details{
		Name:    cmd.Name,
		Email:   cmd.Email,
		Phone:   cmd.Phone,
		Address: cmd.Address,
		Status:  cmd.Status,
	})
}

func (h *Handler) DeleteCustomer(ctx context.Context, cmd DeleteCustomer) error {
	return h.svc.Customers.Delete(ctx, cmd.CustomerID)
}

func customerDetails(cmd CreateCustomer) customer.Details {
	return customer.Details{
		Name:    cmd.Name,
		Email:   cmd.Email,
		Phone:   cmd.Phone,
		Address: cmd.Address,
		Status:  cmd.Status,
	}
}

// Discounts

// CreateDiscount stores product discounts against product names, one per
// selected product. Unknown product ids leave the target empty.
func (h *Handler) CreateDiscount(ctx context.Context, cmd CreateDiscount) ([]*discount.Discount, error) {
	terms := discount.Terms{
		Name:      cmd.Name,
		Value:     cmd.Value,
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
		Status:    cmd.Status,
	}

	var targets []string
	switch cmd.Type {
	case discount.TypeProduct:
		ids := cmd.ProductIDs
		if len(ids) == 0 && cmd.Target != "" {
			ids = []string{cmd.Target}
		}
		for _, id := range ids {
			targets = append(targets, h.productName(id))
		}
	default:
		if cmd.Target != "" {
			targets = []string{cmd.Target}
		}
	}

	return h.svc.Discounts.Create(ctx, cmd.Type, targets, terms)
}

func (h *Handler) ImportDiscount(ctx context.Context, cmd ImportDiscount) (*discount.Discount, error) {
	return h.svc.Discounts.Import(ctx, cmd.Type, cmd.Target, discount.Terms{
		Name:      cmd.Name,
		Value:     cmd.Value,
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
		Status:    cmd.Status,
	})
}

func (h *Handler) UpdateDiscount(ctx context.Context, cmd UpdateDiscount) error {
	return h.svc.Discounts.Update(ctx, cmd.DiscountID, discount.Terms{
		Name:      cmd.Name,
		Value:     cmd.Value,
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
		Status:    cmd.Status,
	})
}

func (h *Handler) DeleteDiscount(ctx context.Context, cmd DeleteDiscount) error {
	return h.svc.Discounts.Delete(ctx, cmd.DiscountID)
}

func (h *Handler) productName(productID string) string {
	p, ok := h.queries.GetProduct(productID)
	if !ok {
		return ""
	}
	return p.Name
}

// Employees

func (h *Handler) CreateEmployee(ctx context.Context, cmd CreateEmployee) (*employee.Employee, error) {
	if err := h.checkEmail(cmd.Email, ""); err != nil {
		return nil, err
	}
	return h.svc.Employees.Create(ctx, employee.Details{
		Name:        cmd.Name,
		Email:       cmd.Email,
		Role:        cmd.Role,
		Permissions: cmd.Permissions,
		Status:      cmd.Status,
	}, cmd.Password)
}

// UpdateEmployee replaces an employee's details. Toggling a permission is an
// update with the new permission set.
func (h *Handler) UpdateEmployee(ctx context.Context, cmd UpdateEmployee) error {
	if err := h.checkEmail(cmd.Email, cmd.EmployeeID); err != nil {
		return err
	}
	return h.svc.Employees.Update(ctx, cmd.EmployeeID, employee.Details{
		Name:        cmd.Name,
		Email:       cmd.Email,
		Role:        cmd.Role,
		Permissions: cmd.Permissions,
		Status:      cmd.Status,
	})
}

func (h *Handler) DeleteEmployee(ctx context.Context, cmd DeleteEmployee) error {
	return h.svc.Employees.Delete(ctx, cmd.EmployeeID)
}

// checkEmail fails when another employee already uses email
func (h *Handler) checkEmail(email, employeeID string) error {
	existing, ok := h.queries.FindEmployeeByEmail(email)
	if ok && existing.ID != employeeID {
		return ErrEmailTaken
	}
	return nil
}

// Profile

func (h *Handler) UpdateProfile(ctx context.Context, cmd UpdateProfile) error {
	if err := h.checkEmail(cmd.Email, cmd.EmployeeID); err != nil {
		return err
	}
	return h.svc.Employees.UpdateProfile(ctx, cmd.EmployeeID, employee.Profile{
		Name:      cmd.Name,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		Address:   cmd.Address,
		Bio:       cmd.Bio,
		AvatarURL: cmd.AvatarURL,
	})
}

func (h *Handler) ChangePassword(ctx context.Context, cmd ChangePassword) error {
	return h.svc.Employees.ChangePassword(ctx, cmd.EmployeeID, cmd.CurrentPassword, cmd.NewPassword, cmd.ConfirmPassword)
}

// Authentication

// Login resolves the email through the read model and checks the password
// against the employee's event stream.
func (h *Handler) Login(ctx context.Context, email, password string) (*employee.Employee, error) {
	e, ok := h.queries.FindEmployeeByEmail(email)
	if !ok {
		return nil, employee.ErrInvalidCredentials
	}
	return h.svc.Employees.Authenticate(ctx, e.ID, password)
}

func (h *Handler) RecordLogin(ctx context.Context, employeeID, sessionID, ipAddress, userAgent string) error {
	return h.svc.Employees.RecordLogin(ctx, employeeID, sessionID, ipAddress, userAgent)
}

func (h *Handler) RecordLogout(ctx context.Context, employeeID, sessionID string) error {
	return h.svc.Employees.RecordLogout(ctx, employeeID, sessionID)
}

// Employee returns the current state of an employee from its event stream
func (h *Handler) Employee(ctx context.Context, employeeID string) (*employee.Employee, error) {
	return h.svc.Employees.Get(ctx, employeeID)
}

// BootstrapAdmin creates an active Admin with every permission unless an
// employee with the email already exists. An existing employee without a
// password gets this one, so seeded admins can log in.
func (h *Handler) BootstrapAdmin(ctx context.Context, name, email, password string) (*employee.Employee, bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, false, nil
	}
	if existing, ok := h.queries.FindEmployeeByEmail(email); ok {
		e, err := h.svc.Employees.Get(ctx, existing.ID)
		if err != nil {
			return nil, false, err
		}
		if e.PasswordHash == "" {
			if err := h.svc.Employees.SetPassword(ctx, e.ID, password); err != nil {
				return nil, false, err
			}
			log.Printf("[Command] Set initial password for %s (id %s)", e.Email, e.ID)
		}
		return e, false, nil
	}

	e, err := h.svc.Employees.Create(ctx, employee.Details{
		Name:        name,
		Email:       email,
		Role:        employee.RoleAdmin,
		Permissions: employee.Permissions,
		Status:      employee.StatusActive,
	}, password)
	if err != nil {
		return nil, false, err
	}

	log.Printf("[Command] Bootstrapped admin %s (id %s)", e.Email, e.ID)
	return e, true, nil
}

// Products

func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	return h.svc.Products.Create(ctx, cmd.ProductID, product.Details{
		Name:         cmd.Name,
		Category:     cmd.Category,
		CostPrice:    cmd.CostPrice,
		SellingPrice: cmd.SellingPrice,
		Stock:        cmd.Stock,
	})
}

func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) (*product.Product, error) {
	return h.svc.Products.Update(ctx, cmd.ProductID, product.Details{
		Name:         cmd.Name,
		Category:     cmd.Category,
		CostPrice:    cmd.CostPrice,
		SellingPrice: cmd.SellingPrice,
		Stock:        cmd.Stock,
	})
}

func (h *Handler) AdjustStock(ctx context.Context, cmd AdjustStock) (*product.Product, error) {
	return h.svc.Products.AdjustStock(ctx, cmd.ProductID, cmd.Delta, cmd.Reason)
}

func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.svc.Products.Delete(ctx, cmd.ProductID)
}

// Orders

// CreateOrder prices each line from the product catalog and names the
// customer from the customer list. Lines without a product are dropped.
func (h *Handler) CreateOrder(ctx context.Context, cmd CreateOrder) (*order.Order, error) {
	items := make([]order.LineItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		line := order.LineItem{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, ok := h.queries.GetProduct(item.ProductID); ok {
			line.Name = p.Name
			line.Price = p.SellingPrice
		}
		items = append(items, line)
	}

	return h.svc.Orders.Create(ctx, order.Draft{
		CustomerID: cmd.CustomerID,
		Customer:   h.customerName(cmd.CustomerID),
		Status:     cmd.Status,
		Items:      items,
	})
}

// ImportOrder records a historic order; its total is recomputed from items
func (h *Handler) ImportOrder(ctx context.Context, cmd ImportOrder) (*order.Order, error) {
	items := make([]order.LineItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		line := order.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if p, ok := h.queries.GetProduct(item.ProductID); ok {
			if line.Name == "" {
				line.Name = p.Name
			}
			if line.Price == 0 {
				line.Price = p.SellingPrice
			}
		}
		items = append(items, line)
	}

	return h.svc.Orders.Import(ctx, cmd.OrderID, cmd.Date, order.Draft{
		CustomerID: cmd.CustomerID,
		Customer:   h.customerName(cmd.CustomerID),
		Status:     cmd.Status,
		Items:      items,
	})
}

func (h *Handler) UpdateOrderStatus(ctx context.Context, cmd UpdateOrderStatus) error {
	return h.svc.Orders.UpdateStatus(ctx, cmd.OrderID, cmd.Status)
}

func (h *Handler) DeleteOrder(ctx context.Context, cmd DeleteOrder) error {
	return h.svc.Orders.Delete(ctx, cmd.OrderID)
}

// customerName returns "" for unknown customers; the order service names
// those orders Unknown.
func (h *Handler) customerName(customerID string) string {
	c, ok := h.queries.GetCustomer(customerID)
	if !ok {
		return ""
	}
	return c.Name
}
