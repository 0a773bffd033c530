package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/example/herbal-backoffice/internal/domain/aggregate"
	"github.com/example/herbal-backoffice/internal/idgen"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
)

const AggregateType = "Product"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidName       = errors.New("name is required")
	ErrInvalidPrice      = errors.New("prices must not be negative")
	ErrNegativeStock     = errors.New("stock must not be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateID       = errors.New("product id already in use")
)

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CostPrice    int       `json:"cost_price"`
	SellingPrice int       `json:"selling_price"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	Deleted      bool      `json:"deleted,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

func (p *Product) GetID() string    { return p.ID }
func (p *Product) GetVersion() int  { return p.Version }
func (p *Product) SetVersion(v int) { p.Version = v }

func (p *Product) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductCreated:
		var data ProductCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		*p = Product{
			ID:           data.ProductID,
			Name:         data.Name,
			Category:     data.Category,
			CostPrice:    data.CostPrice,
			SellingPrice: data.SellingPrice,
			Stock:        data.Stock,
			Status:       data.Status,
			CreatedAt:    data.CreatedAt,
			UpdatedAt:    data.CreatedAt,
		}
	case EventProductUpdated:
		var data ProductUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Name = data.Name
		p.Category = data.Category
		p.CostPrice = data.CostPrice
		p.SellingPrice = data.SellingPrice
		p.Stock = data.Stock
		p.Status = data.Status
		p.UpdatedAt = data.UpdatedAt
	case EventProductStockAdjusted:
		var data ProductStockAdjusted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock = data.Stock
		p.Status = data.Status
		p.UpdatedAt = data.AdjustedAt
	case EventProductDeleted:
		p.Deleted = true
	}
	p.Version = event.Version
	return nil
}

// Details are the fields set on create and edit
type Details struct {
	Name         string
	Category     string
	CostPrice    int
	SellingPrice int
	Stock        int
}

func (d *Details) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ErrInvalidName
	}
	if d.CostPrice < 0 || d.SellingPrice < 0 {
		return ErrInvalidPrice
	}
	if d.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
	codes      *idgen.CodeGenerator
	mu         sync.Mutex
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{
		eventStore: es,
		codes:      idgen.MustCodeGenerator(idgen.ProductPrefix, idgen.CodeDigits),
	}
}

// Create adds a product. An empty productID draws a fresh PRDnnn code.
func (s *Service) Create(ctx context.Context, productID string, d Details) (*Product, error) {
	if err := d.normalize(); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool)
	for _, id := range aggregate.LiveIDs(s.eventStore, AggregateType, EventProductDeleted, EventProductCreated) {
		live[id] = true
	}

	if productID == "" {
		code, err := s.codes.Unique(func(c string) bool { return live[c] }, idgen.MaxAttempts)
		if err != nil {
			return nil, err
		}
		productID = code
	} else if live[productID] {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, productID)
	}

	status := StockStatus(d.Stock)
	event := ProductCreated{
		ProductID:    productID,
		Name:         d.Name,
		Category:     d.Category,
		CostPrice:    d.CostPrice,
		SellingPrice: d.SellingPrice,
		Stock:        d.Stock,
		Status:       status,
		CreatedAt:    time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:           productID,
		Name:         d.Name,
		Category:     d.Category,
		CostPrice:    d.CostPrice,
		SellingPrice: d.SellingPrice,
		Stock:        d.Stock,
		Status:       status,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.CreatedAt,
	}
	s.snapshot(ctx, p, stored)
	return p, nil
}

// Update replaces every editable field and re-derives the stock status
func (s *Service) Update(ctx context.Context, productID string, d Details) (*Product, error) {
	if err := d.normalize(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	status := StockStatus(d.Stock)
	event := ProductUpdated{
		ProductID:    productID,
		Name:         d.Name,
		Category:     d.Category,
		CostPrice:    d.CostPrice,
		SellingPrice: d.SellingPrice,
		Stock:        d.Stock,
		Status:       status,
		UpdatedAt:    time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductUpdated, event)
	if err != nil {
		return nil, err
	}

	p.Name, p.Category, p.CostPrice, p.SellingPrice = d.Name, d.Category, d.CostPrice, d.SellingPrice
	p.Stock, p.Status, p.UpdatedAt = d.Stock, status, event.UpdatedAt
	s.snapshot(ctx, p, stored)
	return p, nil
}

// AdjustStock adds delta (possibly negative) to the stock level
func (s *Service) AdjustStock(ctx context.Context, productID string, delta int, reason string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	stock := p.Stock + delta
	if stock < 0 {
		return nil, fmt.Errorf("%w: %d available, %d requested", ErrInsufficientStock, p.Stock, -delta)
	}

	status := StockStatus(stock)
	event := ProductStockAdjusted{
		ProductID:  productID,
		Delta:      delta,
		Stock:      stock,
		Status:     status,
		Reason:     reason,
		AdjustedAt: time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductStockAdjusted, event)
	if err != nil {
		return nil, err
	}

	p.Stock, p.Status, p.UpdatedAt = stock, status, event.AdjustedAt
	s.snapshot(ctx, p, stored)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	if _, err := s.load(ctx, productID); err != nil {
		return err
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now(),
	})
	return err
}

func (s *Service) load(ctx context.Context, productID string) (*Product, error) {
	p, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateType, productID, func() *Product {
		return &Product{}
	})
	if err != nil {
		return nil, err
	}
	if !found || p.Deleted {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *Service) snapshot(ctx context.Context, p *Product, stored *store.Event) {
	if stored == nil {
		return
	}
	p.Version = stored.Version
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType); err != nil {
		log.Printf("[Product] Failed to create snapshot for product %s: %v", p.ID, err)
	}
}
