package query

import (
	"strings"
	"time"

	"github.com/example/herbal-backoffice/internal/domain/discount"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
	now       func() time.Time
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore, now: time.Now}
}

// WithClock returns a handler that derives time-dependent fields from now
func (h *Handler) WithClock(now func() time.Time) *Handler {
	return &Handler{readStore: h.readStore, now: now}
}

// Categories
func (h *Handler) GetCategory(id string) (*CategoryReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.Categories, id)
	if !ok {
		return nil, false
	}
	c := *data.(*CategoryReadModel)
	c.ProductCount = h.countProducts(c.Name)
	return &c, true
}

// ListCategories returns categories whose name or description contains q
func (h *Handler) ListCategories(q string) []*CategoryReadModel {
	counts := make(map[string]int)
	for _, item := range h.readStore.GetAll(readmodel.Products) {
		counts[item.(*ProductReadModel).Category]++
	}

	categories := make([]*CategoryReadModel, 0)
	for _, item := range h.readStore.GetAll(readmodel.Categories) {
		c := *item.(*CategoryReadModel)
		if !matchAny(q, c.Name, c.Description) {
			continue
		}
		c.ProductCount = counts[c.Name]
		categories = append(categories, &c)
	}
	sortByCreation(categories, func(c *CategoryReadModel) (time.Time, string) { return c.CreatedAt, c.ID })
	return categories
}

func (h *Handler) countProducts(categoryName string) int {
	n := 0
	for _, item := range h.readStore.GetAll(readmodel.Products) {
		if item.(*ProductReadModel).Category == categoryName {
			n++
		}
	}
	return n
}

// Customers
func (h *Handler) GetCustomer(id string) (*CustomerReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.Customers, id)
	if !ok {
		return nil, false
	}
	return data.(*CustomerReadModel), true
}

// ListCustomers matches q against name and email ignoring case, and against
// the phone number exactly as typed.
func (h *Handler) ListCustomers(q string) []*CustomerReadModel {
	customers := make([]*CustomerReadModel, 0)
	for _, item := range h.readStore.GetAll(readmodel.Customers) {
		c := item.(*CustomerReadModel)
		if !matchAny(q, c.Name, c.Email) && !strings.Contains(c.Phone, q) {
			continue
		}
		customers = append(customers, c)
	}
	sortByCreation(customers, func(c *CustomerReadModel) (time.Time, string) { return c.CreatedAt, c.ID })
	return customers
}

// Discounts
func (h *Handler) GetDiscount(id string) (*DiscountReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.Discounts, id)
	if !ok {
		return nil, false
	}
	return h.withDisplayStatus(data.(*DiscountReadModel), h.now()), true
}

// ListDiscounts returns discounts whose name, target or type contains q.
// Every item carries its display status as of the handler's clock.
func (h *Handler) ListDiscounts(q string) []*DiscountReadModel {
	today := h.now()
	discounts := make([]*DiscountReadModel, 0)
	for _, item := range h.readStore.GetAll(readmodel.Discounts) {
		d := item.(*DiscountReadModel)
		if !matchAny(q, d.Name, d.Target, d.Type) {
			continue
		}
		discounts = append(discounts, h.withDisplayStatus(d, today))
	}
	sortByCreation(discounts, func(d *DiscountReadModel) (time.Time, string) { return d.CreatedAt, d.ID })
	return discounts
}

func (h *Handler) withDisplayStatus(d *DiscountReadModel, today time.Time) *DiscountReadModel {
	out := *d
	out.DisplayStatus = discount.DisplayStatus(d.Status, d.EndDate, today)
	return &out
}

// Employees
func (h *Handler) GetEmployee(id string) (*EmployeeReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.Employees, id)
	if !ok {
		return nil, false
	}
	return data.(*EmployeeReadModel), true
}

func (h *Handler) ListEmployees(q string) []*EmployeeReadModel {
	employees := make([]*EmployeeReadModel, 0)
	for _, item := range h.readStore.GetAll(readmodel.Employees) {
		e := item.(*EmployeeReadModel)
		if !matchAny(q, e.Name, e.Email, e.Role) {
			continue
		}
		employees = append(employees, e)
	}
	sortByCreation(employees, func(e *EmployeeReadModel) (time.Time, string) { return e.CreatedAt, e.ID })
	return employees
}

// FindEmployeeByEmail looks an employee up by email, ignoring case
func (h *Handler) FindEmployeeByEmail(email string) (*EmployeeReadModel, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false
	}
	for _, item := range h.readStore.GetAll(readmodel.Employees) {
		e := item.(*EmployeeReadModel)
		if strings.EqualFold(e.Email, email) {
			return e, true
		}
	}
	return nil, false
}

// Products
func (h *Handler) GetProduct(id string) (*ProductReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.Products, id)
	if !ok {
		return nil, false
	}
	return data.(*ProductReadModel), true
}

func (h *Handler) ListProducts(q string) []*ProductReadModel {
	products := make([]*ProductReadModel, 0)
	for _, item := range h.readStore.GetAll(readmodel.Products) {
		p := item.(*ProductReadModel)
		if !matchAny(q, p.Name, p.ID, p.Category) {
			continue
		}
		products = append(products, p)
	}
	sortByCreation(products, func(p *ProductReadModel) (time.Time, string) { return p.CreatedAt, p.ID })
	return products
}

// Orders
func (h *Handler) GetOrder(id string) (*OrderReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.Orders, id)
	if !ok {
		return nil, false
	}
	return data.(*OrderReadModel), true
}

func (h *Handler) ListOrders(q string) []*OrderReadModel {
	orders := make([]*OrderReadModel, 0)
	for _, item := range h.readStore.GetAll(readmodel.Orders) {
		o := item.(*OrderReadModel)
		if !matchAny(q, o.ID, o.Customer, o.Status) {
			continue
		}
		orders = append(orders, o)
	}
	sortByCreation(orders, func(o *OrderReadModel) (time.Time, string) { return o.CreatedAt, o.ID })
	return orders
}

// ListOrdersByCustomer returns the orders placed for one customer
func (h *Handler) ListOrdersByCustomer(customerID string) []*OrderReadModel {
	orders := make([]*OrderReadModel, 0)
	for _, o := range h.ListOrders("") {
		if o.CustomerID == customerID {
			orders = append(orders, o)
		}
	}
	return orders
}
