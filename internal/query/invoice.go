package query

import (
	"github.com/example/herbal-backoffice/internal/domain/order"
)

// Party is the bill-to or ship-to block of an invoice
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
}

type InvoiceLine struct {
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
	Amount      int    `json:"amount"`
}

// Invoice is derived from an order on every request; amounts in cents
type Invoice struct {
	Number   string        `json:"number"`
	OrderID  string        `json:"order_id"`
	Date     string        `json:"date"`
	DueDate  string        `json:"due_date"`
	Status   string        `json:"status"`
	BillTo   Party         `json:"bill_to"`
	ShipTo   Party         `json:"ship_to"`
	Lines    []InvoiceLine `json:"lines"`
	Subtotal int           `json:"subtotal"`
	TaxRate  int           `json:"tax_rate"`
	Tax      int           `json:"tax"`
	Total    int           `json:"total"`
	Note     string        `json:"note"`
}

// Invoice renders the invoice for an order. Customer contact details are
// filled in when the customer still exists.
func (h *Handler) Invoice(orderID string) (*Invoice, bool) {
	o, ok := h.GetOrder(orderID)
	if !ok {
		return nil, false
	}
	return BuildInvoice(o, h.customerOf(o)), true
}

func (h *Handler) customerOf(o *OrderReadModel) *CustomerReadModel {
	c, ok := h.GetCustomer(o.CustomerID)
	if !ok {
		return nil
	}
	return c
}

// BuildInvoice derives an invoice from an order and its customer, if any
func BuildInvoice(o *OrderReadModel, c *CustomerReadModel) *Invoice {
	party := Party{Name: o.Customer}
	if c != nil {
		party.Address = c.Address
		party.Email = c.Email
	}

	lines := make([]InvoiceLine, 0, len(o.Items))
	subtotal := 0
	for _, item := range o.Items {
		amount := item.Price * item.Quantity
		subtotal += amount
		lines = append(lines, InvoiceLine{
			ProductID:   item.ProductID,
			Description: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Amount:      amount,
		})
	}

	tax := order.Tax(subtotal)
	return &Invoice{
		Number:   o.ID,
		OrderID:  o.ID,
		Date:     o.Date,
		DueDate:  order.DueDate(o.Date),
		Status:   o.Status,
		BillTo:   party,
		ShipTo:   party,
		Lines:    lines,
		Subtotal: subtotal,
		TaxRate:  order.TaxRatePercent,
		Tax:      tax,
		Total:    subtotal + tax,
		Note:     order.InvoiceNote,
	}
}
