// Package seed loads the demo back-office data through the command handler.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/example/herbal-backoffice/internal/command"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Active      bool   `yaml:"active"`
}

type Product struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	CostPrice    int    `yaml:"cost_price"`
	SellingPrice int    `yaml:"selling_price"`
	Stock        int    `yaml:"stock"`
}

type Customer struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Address     string `yaml:"address"`
	TotalOrders int    `yaml:"total_orders"`
	TotalSpent  int    `yaml:"total_spent"`
	Status      string `yaml:"status"`
}

type Discount struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Target    string `yaml:"target"`
	Value     int    `yaml:"value"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Status    string `yaml:"status"`
}

type Profile struct {
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	Bio       string `yaml:"bio"`
	AvatarURL string `yaml:"avatar_url"`
}

type Employee struct {
	Name        string   `yaml:"name"`
	Email       string   `yaml:"email"`
	Role        string   `yaml:"role"`
	Permissions []string `yaml:"permissions"`
	Status      string   `yaml:"status"`
	Password    string   `yaml:"password"`
	Profile     *Profile `yaml:"profile"`
}

type OrderItem struct {
	ProductID string `yaml:"product_id"`
	Quantity  int    `yaml:"quantity"`
	Price     int    `yaml:"price"`
}

// Order refers to its customer by 1-based position in the customers list.
// There is no stored total: an imported order totals its line items, so
// ORD001 comes to 44.97 even though the legacy order list showed 45.98.
type Order struct {
	ID       string      `yaml:"id"`
	Customer int         `yaml:"customer"`
	Date     string      `yaml:"date"`
	Status   string      `yaml:"status"`
	Items    []OrderItem `yaml:"items"`
}

type Fixture struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
	Customers  []Customer `yaml:"customers"`
	Discounts  []Discount `yaml:"discounts"`
	Employees  []Employee `yaml:"employees"`
	Orders     []Order    `yaml:"orders"`
}

// Demo returns the embedded demo fixture
func Demo() (*Fixture, error) {
	return Parse(demoYAML)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Apply issues one command per fixture record. Orders are imported so the
// customers' opening totals are not counted twice.
func Apply(ctx context.Context, h *command.Handler, f *Fixture) error {
	for _, c := range f.Categories {
		active := c.Active
		if _, err := h.CreateCategory(ctx, command.CreateCategory{
			Name:        c.Name,
			Description: c.Description,
			Active:      &active,
		}); err != nil {
			return fmt.Errorf("category %q: %w", c.Name, err)
		}
	}

	productNames := make(map[string]string, len(f.Products))
	for _, p := range f.Products {
		created, err := h.CreateProduct(ctx, command.CreateProduct{
			ProductID:    p.ID,
			Name:         p.Name,
			Category:     p.Category,
			CostPrice:    p.CostPrice,
			SellingPrice: p.SellingPrice,
			Stock:        p.Stock,
		})
		if err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
		productNames[created.ID] = created.Name
	}

	customerIDs := make([]string, 0, len(f.Customers))
	for _, c := range f.Customers {
		created, err := h.ImportCustomer(ctx, command.ImportCustomer{
			CreateCustomer: command.CreateCustomer{
				Name:    c.Name,
				Email:   c.Email,
				Phone:   c.Phone,
				Address: c.Address,
				Status:  c.Status,
			},
			TotalOrders: c.TotalOrders,
			TotalSpent:  c.TotalSpent,
		})
		if err != nil {
			return fmt.Errorf("customer %q: %w", c.Name, err)
		}
		customerIDs = append(customerIDs, created.ID)
	}

	for _, d := range f.Discounts {
		if _, err := h.ImportDiscount(ctx, command.ImportDiscount{
			Name:      d.Name,
			Type:      d.Type,
			Target:    d.Target,
			Value:     d.Value,
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
			Status:    d.Status,
		}); err != nil {
			return fmt.Errorf("discount %q: %w", d.Name, err)
		}
	}

	for _, e := range f.Employees {
		created, err := h.CreateEmployee(ctx, command.CreateEmployee{
			Name:        e.Name,
			Email:       e.Email,
			Role:        e.Role,
			Permissions: e.Permissions,
			Status:      e.Status,
			Password:    e.Password,
		})
		if err != nil {
			return fmt.Errorf("employee %q: %w", e.Email, err)
		}
		if e.Profile == nil {
			continue
		}
		if err := h.UpdateProfile(ctx, command.UpdateProfile{
			EmployeeID: created.ID,
			Name:       created.Name,
			Email:      created.Email,
			Phone:      e.Profile.Phone,
			Address:    e.Profile.Address,
			Bio:        e.Profile.Bio,
			AvatarURL:  e.Profile.AvatarURL,
		}); err != nil {
			return fmt.Errorf("profile %q: %w", e.Email, err)
		}
	}

	for _, o := range f.Orders {
		if o.Customer < 1 || o.Customer > len(customerIDs) {
			return fmt.Errorf("order %s: unknown customer %d", o.ID, o.Customer)
		}
		items := make([]command.ImportOrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, command.ImportOrderItem{
				ProductID: item.ProductID,
				Name:      productNames[item.ProductID],
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		if _, err := h.ImportOrder(ctx, command.ImportOrder{
			OrderID:    o.ID,
			CustomerID: customerIDs[o.Customer-1],
			Date:       o.Date,
			Status:     o.Status,
			Items:      items,
		}); err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
	}

	log.Printf("[Seed] Loaded %d categories, %d products, %d customers, %d discounts, %d employees, %d orders",
		len(f.Categories), len(f.Products), len(f.Customers), len(f.Discounts), len(f.Employees), len(f.Orders))
	return nil
}
