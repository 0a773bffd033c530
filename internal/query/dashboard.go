package query

import (
	"slices"

	"github.com/example/herbal-backoffice/internal/domain/customer"
	"github.com/example/herbal-backoffice/internal/domain/discount"
	"github.com/example/herbal-backoffice/internal/domain/order"
	"github.com/example/herbal-backoffice/internal/domain/product"
)

const recentOrderLimit = 5

// Dashboard summarizes the back office for the landing page
type Dashboard struct {
	Categories      int               `json:"categories"`
	Customers       int               `json:"customers"`
	ActiveCustomers int               `json:"active_customers"`
	Products        int               `json:"products"`
	LowStock        int               `json:"low_stock"`
	OutOfStock      int               `json:"out_of_stock"`
	Orders          int               `json:"orders"`
	PendingOrders   int               `json:"pending_orders"`
	Revenue         int               `json:"revenue"`
	Employees       int               `json:"employees"`
	ActiveDiscounts int               `json:"active_discounts"`
	RecentOrders    []*OrderReadModel `json:"recent_orders"`
}

// Dashboard counts every collection. Revenue is the sum of order totals
// excluding returned orders.
func (h *Handler) Dashboard() *Dashboard {
	d := &Dashboard{}

	d.Categories = len(h.ListCategories(""))

	for _, c := range h.ListCustomers("") {
		d.Customers++
		if c.Status == customer.StatusActive {
			d.ActiveCustomers++
		}
	}

	for _, p := range h.ListProducts("") {
		d.Products++
		switch p.Status {
		case product.StatusLowStock:
			d.LowStock++
		case product.StatusOutOfStock:
			d.OutOfStock++
		}
	}

	orders := h.ListOrders("")
	for _, o := range orders {
		d.Orders++
		if o.Status == order.StatusPending {
			d.PendingOrders++
		}
		if o.Status != order.StatusReturned {
			d.Revenue += o.Total
		}
	}

	d.Employees = len(h.ListEmployees(""))

	for _, dc := range h.ListDiscounts("") {
		if dc.DisplayStatus == discount.StatusActive {
			d.ActiveDiscounts++
		}
	}

	recent := slices.Clone(orders)
	slices.Reverse(recent)
	if len(recent) > recentOrderLimit {
		recent = recent[:recentOrderLimit]
	}
	d.RecentOrders = recent

	return d
}
