package customer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/herbal-backoffice/internal/domain/aggregate"
	"github.com/example/herbal-backoffice/internal/idgen"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
)

const AggregateType = "Customer"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidEmail     = errors.New("email is required")
	ErrInvalidStatus    = errors.New("status must be active or inactive")
	ErrInvalidTotals    = errors.New("order totals must not be negative")
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	Deleted   bool      `json:"deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

func (c *Customer) GetID() string    { return c.ID }
func (c *Customer) GetVersion() int  { return c.Version }
func (c *Customer) SetVersion(v int) { c.Version = v }

func (c *Customer) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventCustomerCreated:
		var data CustomerCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		*c = Customer{
			ID:        data.CustomerID,
			Name:      data.Name,
			Email:     data.Email,
			Phone:     data.Phone,
			Address:   data.Address,
			Status:    data.Status,
			CreatedAt: data.CreatedAt,
			UpdatedAt: data.CreatedAt,
		}
	case EventCustomerUpdated:
		var data CustomerUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Name = data.Name
		c.Email = data.Email
		c.Phone = data.Phone
		c.Address = data.Address
		c.Status = data.Status
		c.UpdatedAt = data.UpdatedAt
	case EventCustomerDeleted:
		c.Deleted = true
	}
	c.Version = event.Version
	return nil
}

// Details is the editable part of a customer record
type Details struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Status  string
}

func (d *Details) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	if d.Name == "" {
		return ErrInvalidName
	}
	if d.Email == "" {
		return ErrInvalidEmail
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	if d.Status != StatusActive && d.Status != StatusInactive {
		return ErrInvalidStatus
	}
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
	mu         sync.Mutex
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Create adds a customer with zero orders and zero spend
func (s *Service) Create(ctx context.Context, d Details) (*Customer, error) {
	return s.Import(ctx, d, 0, 0)
}

// Import adds a customer carrying opening order totals (cents)
func (s *Service) Import(ctx context.Context, d Details, totalOrders, totalSpent int) (*Customer, error) {
	if err := d.normalize(); err != nil {
		return nil, err
	}
	if totalOrders < 0 || totalSpent < 0 {
		return nil, ErrInvalidTotals
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := aggregate.LiveIDs(s.eventStore, AggregateType, EventCustomerDeleted, EventCustomerCreated)
	customerID := strconv.Itoa(idgen.NextSequence(ids))

	event := CustomerCreated{
		CustomerID:  customerID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		Status:      d.Status,
		TotalOrders: totalOrders,
		TotalSpent:  totalSpent,
		CreatedAt:   time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, customerID, AggregateType, EventCustomerCreated, event)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		ID:        customerID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Status:    d.Status,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.CreatedAt,
	}
	s.snapshot(ctx, c, stored)
	return c, nil
}

func (s *Service) Update(ctx context.Context, customerID string, d Details) error {
	if err := d.normalize(); err != nil {
		return err
	}

	c, err := s.load(ctx, customerID)
	if err != nil {
		return err
	}

	event := CustomerUpdated{
		CustomerID: customerID,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Address:    d.Address,
		Status:     d.Status,
		UpdatedAt:  time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, customerID, AggregateType, EventCustomerUpdated, event)
	if err != nil {
		return err
	}

	c.Name, c.Email, c.Phone, c.Address, c.Status = d.Name, d.Email, d.Phone, d.Address, d.Status
	c.UpdatedAt = event.UpdatedAt
	s.snapshot(ctx, c, stored)
	return nil
}

func (s *Service) Delete(ctx context.Context, customerID string) error {
	if _, err := s.load(ctx, customerID); err != nil {
		return err
	}

	_, err := s.eventStore.Append(ctx, customerID, AggregateType, EventCustomerDeleted, CustomerDeleted{
		CustomerID: customerID,
		DeletedAt:  time.Now(),
	})
	return err
}

// Get returns the current state of a live customer
func (s *Service) Get(ctx context.Context, customerID string) (*Customer, error) {
	return s.load(ctx, customerID)
}

func (s *Service) load(ctx context.Context, customerID string) (*Customer, error) {
	c, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateType, customerID, func() *Customer {
		return &Customer{}
	})
	if err != nil {
		return nil, err
	}
	if !found || c.Deleted {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *Service) snapshot(ctx context.Context, c *Customer, stored *store.Event) {
	if stored == nil {
		return
	}
	c.Version = stored.Version
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, c, AggregateType); err != nil {
		log.Printf("[Customer] Failed to create snapshot for customer %s: %v", c.ID, err)
	}
}
