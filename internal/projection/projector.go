package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/herbal-backoffice/internal/domain/category"
	"github.com/example/herbal-backoffice/internal/domain/customer"
	"github.com/example/herbal-backoffice/internal/domain/discount"
	"github.com/example/herbal-backoffice/internal/domain/employee"
	"github.com/example/herbal-backoffice/internal/domain/order"
	"github.com/example/herbal-backoffice/internal/domain/product"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
	verbose   bool
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore, verbose: true}
}

// Quiet turns off the per-event log line, for replays
func (p *Projector) Quiet() *Projector {
	return &Projector{readStore: p.readStore}
}

// HandleEvent decodes a serialized store.Event and applies it to the read
// store. It has the kafka.MessageHandler signature.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	return p.Apply(event)
}

// Apply projects one event
func (p *Projector) Apply(event store.Event) error {
	if p.verbose {
		log.Printf("[Projector] Received event: %s (aggregate: %s %s)", event.EventType, event.AggregateType, event.AggregateID)
	}

	switch event.AggregateType {
	case category.AggregateType:
		return p.handleCategoryEvent(event)
	case customer.AggregateType:
		return p.handleCustomerEvent(event)
	case discount.AggregateType:
		return p.handleDiscountEvent(event)
	case employee.AggregateType:
		return p.handleEmployeeEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	case product.AggregateType:
		return p.handleProductEvent(event)
	}

	return nil
}

func (p *Projector) handleCategoryEvent(event store.Event) error {
	switch event.EventType {
	case category.EventCategoryCreated:
		var e category.CategoryCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.Categories, e.CategoryID, &readmodel.CategoryReadModel{
			ID:          e.CategoryID,
			Name:        e.Name,
			Description: e.Description,
			Active:      e.Active,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.CreatedAt,
		})

	case category.EventCategoryUpdated:
		var e category.CategoryUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Categories, e.CategoryID, func(current any) any {
			c := current.(*readmodel.CategoryReadModel)
			c.Name = e.Name
			c.Description = e.Description
			c.Active = e.Active
			c.UpdatedAt = e.UpdatedAt
			return c
		})

	case category.EventCategoryDeleted:
		p.readStore.Delete(readmodel.Categories, event.AggregateID)
	}

	return nil
}

func (p *Projector) handleCustomerEvent(event store.Event) error {
	switch event.EventType {
	case customer.EventCustomerCreated:
		var e customer.CustomerCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.Customers, e.CustomerID, &readmodel.CustomerReadModel{
			ID:          e.CustomerID,
			Name:        e.Name,
			Email:       e.Email,
			Phone:       e.Phone,
			Address:     e.Address,
			TotalOrders: e.TotalOrders,
			TotalSpent:  e.TotalSpent,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.CreatedAt,
		})

	case customer.EventCustomerUpdated:
		var e customer.CustomerUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Customers, e.CustomerID, func(current any) any {
			c := current.(*readmodel.CustomerReadModel)
			c.Name = e.Name
			c.Email = e.Email
			c.Phone = e.Phone
			c.Address = e.Address
			c.Status = e.Status
			c.UpdatedAt = e.UpdatedAt
			return c
		})

	case customer.EventCustomerDeleted:
		p.readStore.Delete(readmodel.Customers, event.AggregateID)
	}

	return nil
}

func (p *Projector) handleDiscountEvent(event store.Event) error {
	switch event.EventType {
	case discount.EventDiscountCreated:
		var e discount.DiscountCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.Discounts, e.DiscountID, &readmodel.DiscountReadModel{
			ID:        e.DiscountID,
			Name:      e.Name,
			Type:      e.Type,
			Target:    e.Target,
			Value:     e.Value,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Status:    e.Status,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.CreatedAt,
		})

	case discount.EventDiscountUpdated:
		var e discount.DiscountUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Discounts, e.DiscountID, func(current any) any {
			d := current.(*readmodel.DiscountReadModel)
			d.Name = e.Name
			d.Value = e.Value
			d.StartDate = e.StartDate
			d.EndDate = e.EndDate
			d.Status = e.Status
			d.UpdatedAt = e.UpdatedAt
			return d
		})

	case discount.EventDiscountDeleted:
		p.readStore.Delete(readmodel.Discounts, event.AggregateID)
	}

	return nil
}

func (p *Projector) handleEmployeeEvent(event store.Event) error {
	switch event.EventType {
	case employee.EventEmployeeCreated:
		var e employee.EmployeeCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.Employees, e.EmployeeID, &readmodel.EmployeeReadModel{
			ID:          e.EmployeeID,
			Name:        e.Name,
			Email:       e.Email,
			Role:        e.Role,
			Permissions: e.Permissions,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.CreatedAt,
		})

	case employee.EventEmployeeUpdated:
		var e employee.EmployeeUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Employees, e.EmployeeID, func(current any) any {
			emp := current.(*readmodel.EmployeeReadModel)
			emp.Name = e.Name
			emp.Email = e.Email
			emp.Role = e.Role
			emp.Permissions = e.Permissions
			emp.Status = e.Status
			emp.UpdatedAt = e.UpdatedAt
			return emp
		})

	case employee.EventEmployeeProfileUpdated:
		var e employee.EmployeeProfileUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Employees, e.EmployeeID, func(current any) any {
			emp := current.(*readmodel.EmployeeReadModel)
			emp.Name = e.Name
			emp.Email = e.Email
			emp.Phone = e.Phone
			emp.Address = e.Address
			emp.Bio = e.Bio
			emp.AvatarURL = e.AvatarURL
			emp.UpdatedAt = e.UpdatedAt
			return emp
		})

	case employee.EventEmployeeLoggedIn:
		var e employee.EmployeeLoggedIn
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Employees, e.EmployeeID, func(current any) any {
			emp := current.(*readmodel.EmployeeReadModel)
			at := e.LoggedAt
			emp.LastLoginAt = &at
			return emp
		})

	case employee.EventEmployeeDeleted:
		p.readStore.Delete(readmodel.Employees, event.AggregateID)
	}

	return nil
}

func (p *Projector) handleProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.Products, e.ProductID, &readmodel.ProductReadModel{
			ID:           e.ProductID,
			Name:         e.Name,
			Category:     e.Category,
			CostPrice:    e.CostPrice,
			SellingPrice: e.SellingPrice,
			Stock:        e.Stock,
			Status:       e.Status,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Products, e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Name = e.Name
			prod.Category = e.Category
			prod.CostPrice = e.CostPrice
			prod.SellingPrice = e.SellingPrice
			prod.Stock = e.Stock
			prod.Status = e.Status
			prod.UpdatedAt = e.UpdatedAt
			return prod
		})

	case product.EventProductStockAdjusted:
		var e product.ProductStockAdjusted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Products, e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Stock = e.Stock
			prod.Status = e.Status
			prod.UpdatedAt = e.AdjustedAt
			return prod
		})

	case product.EventProductDeleted:
		p.readStore.Delete(readmodel.Products, event.AggregateID)
	}

	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderCreated, order.EventOrderImported:
		var e order.OrderCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		items := make([]readmodel.OrderItemReadModel, len(e.Items))
		for i, item := range e.Items {
			items[i] = readmodel.OrderItemReadModel{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}

		p.readStore.Set(readmodel.Orders, e.OrderID, &readmodel.OrderReadModel{
			ID:         e.OrderID,
			CustomerID: e.CustomerID,
			Customer:   e.Customer,
			Date:       e.Date,
			Items:      items,
			Total:      e.Total,
			Status:     e.Status,
			CreatedAt:  e.CreatedAt,
			UpdatedAt:  e.CreatedAt,
		})

		if event.EventType == order.EventOrderCreated {
			p.adjustCustomerTotals(e.CustomerID, 1, e.Total)
		}

	case order.EventOrderStatusChanged:
		var e order.OrderStatusChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.Orders, e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.Status = e.To
			o.UpdatedAt = e.ChangedAt
			return o
		})

	case order.EventOrderDeleted:
		var e order.OrderDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Delete(readmodel.Orders, e.OrderID)
		p.adjustCustomerTotals(e.CustomerID, -1, -e.Total)
	}

	return nil
}

// adjustCustomerTotals keeps both totals at or above zero
func (p *Projector) adjustCustomerTotals(customerID string, orders, spent int) {
	if customerID == "" {
		return
	}
	p.readStore.Update(readmodel.Customers, customerID, func(current any) any {
		c := current.(*readmodel.CustomerReadModel)
		c.TotalOrders = max(0, c.TotalOrders+orders)
		c.TotalSpent = max(0, c.TotalSpent+spent)
		return c
	})
}
