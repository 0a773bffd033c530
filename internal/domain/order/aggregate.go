package order

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

const AggregateType = "Order"

const DateLayout = "2006-01-02"

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusReturned   = "Returned"
)

var Statuses = []string{StatusPending, StatusProcessing, StatusCompleted, StatusReturned}

// UnknownCustomer names orders whose customer id resolves to nothing
const UnknownCustomer = "Unknown"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderGuard      = errors.New("Please select at least one product and a customer")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidStatus   = errors.New("status must be Pending, Processing, Completed or Returned")
	ErrInvalidDate     = errors.New("date must use YYYY-MM-DD")
	ErrDuplicateID     = errors.New("order id already in use")
)

type Order struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	Customer   string     `json:"customer"`
	Date       string     `json:"date"`
	Items      []LineItem `json:"items"`
	Total      int        `json:"total"`
	Status     string     `json:"status"`
	Deleted    bool       `json:"deleted,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

func (o *Order) GetID() string    { return o.ID }
func (o *Order) GetVersion() int  { return o.Version }
func (o *Order) SetVersion(v int) { o.Version = v }

// ApplyEvent applies a single event to the order state
func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderCreated, EventOrderImported:
		var data OrderCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		*o = Order{
			ID:         data.OrderID,
			CustomerID: data.CustomerID,
			Customer:   data.Customer,
			Date:       data.Date,
			Items:      data.Items,
			Total:      data.Total,
			Status:     data.Status,
			CreatedAt:  data.CreatedAt,
			UpdatedAt:  data.CreatedAt,
		}
	case EventOrderStatusChanged:
		var data OrderStatusChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = data.To
		o.UpdatedAt = data.ChangedAt
	case EventOrderDeleted:
		o.Deleted = true
	}
	o.Version = event.Version
	return nil
}

// Draft is an order as entered, with names and prices already resolved.
// Items without a product id are blank rows and are dropped.
type Draft struct {
	CustomerID string
	Customer   string
	Status     string
	Items      []LineItem
}

// Total sums price times quantity
func Total(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Price * item.Quantity
	}
	return total
}

// SelectedItems drops line items that have no product selected
func SelectedItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func validStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Service struct {
	eventStore store.EventStoreInterface
	codes      *idgen.CodeGenerator
	now        func() time.Time
	mu         sync.Mutex
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{
		eventStore: es,
		codes:      idgen.MustCodeGenerator(idgen.OrderPrefix, idgen.CodeDigits),
		now:        time.Now,
	}
}

// Create places an order dated today. When no product is selected or no
// customer is chosen it returns ErrOrderGuard and appends nothing.
func (s *Service) Create(ctx context.Context, d Draft) (*Order, error) {
	items := SelectedItems(d.Items)
	if len(items) == 0 || strings.TrimSpace(d.CustomerID) == "" {
		return nil, ErrOrderGuard
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}
	if d.Status == "" {
		d.Status = StatusPending
	}
	if !validStatus(d.Status) {
		return nil, ErrInvalidStatus
	}
	if d.Customer == "" {
		d.Customer = UnknownCustomer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.liveIDs()
	orderID, err := s.codes.Unique(func(c string) bool { return live[c] }, idgen.MaxAttempts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := OrderCreated{
		OrderID:    orderID,
		CustomerID: d.CustomerID,
		Customer:   d.Customer,
		Date:       now.Format(DateLayout),
		Items:      items,
		Total:      Total(items),
		Status:     d.Status,
		CreatedAt:  now,
	}
	return s.append(ctx, EventOrderCreated, event)
}

// Import records an existing order under its own id and date
func (s *Service) Import(ctx context.Context, orderID, date string, d Draft) (*Order, error) {
	items := SelectedItems(d.Items)
	if len(items) == 0 || strings.TrimSpace(d.CustomerID) == "" {
		return nil, ErrOrderGuard
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	if !validStatus(d.Status) {
		return nil, ErrInvalidStatus
	}
	if d.Customer == "" {
		d.Customer = UnknownCustomer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.liveIDs()[orderID] {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, orderID)
	}

	event := OrderCreated{
		OrderID:    orderID,
		CustomerID: d.CustomerID,
		Customer:   d.Customer,
		Date:       date,
		Items:      items,
		Total:      Total(items),
		Status:     d.Status,
		CreatedAt:  s.now(),
	}
	return s.append(ctx, EventOrderImported, event)
}

func (s *Service) append(ctx context.Context, eventType string, event OrderCreated) (*Order, error) {
	var data any = event
	if eventType == EventOrderImported {
		data = OrderImported(event)
	}

	stored, err := s.eventStore.Append(ctx, event.OrderID, AggregateType, eventType, data)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:         event.OrderID,
		CustomerID: event.CustomerID,
		Customer:   event.Customer,
		Date:       event.Date,
		Items:      event.Items,
		Total:      event.Total,
		Status:     event.Status,
		CreatedAt:  event.CreatedAt,
		UpdatedAt:  event.CreatedAt,
	}
	s.snapshot(ctx, o, stored)
	return o, nil
}

// UpdateStatus sets any of the four statuses; setting the current one is a no-op
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status == status {
		return nil
	}

	event := OrderStatusChanged{
		OrderID:   orderID,
		From:      o.Status,
		To:        status,
		ChangedAt: s.now(),
	}

	stored, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderStatusChanged, event)
	if err != nil {
		return err
	}

	o.Status = status
	o.UpdatedAt = event.ChangedAt
	s.snapshot(ctx, o, stored)
	return nil
}

// Delete removes an order. The event carries the customer and total so the
// customer's order totals can be reversed.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}

	_, err = s.eventStore.Append(ctx, orderID, AggregateType, EventOrderDeleted, OrderDeleted{
		OrderID:    orderID,
		CustomerID: o.CustomerID,
		Total:      o.Total,
		DeletedAt:  s.now(),
	})
	return err
}

func (s *Service) liveIDs() map[string]bool {
	live := make(map[string]bool)
	for _, id := range aggregate.LiveIDs(s.eventStore, AggregateType, EventOrderDeleted, EventOrderCreated, EventOrderImported) {
		live[id] = true
	}
	return live
}

// load loads an order by replaying events, using snapshot if available
func (s *Service) load(ctx context.Context, orderID string) (*Order, error) {
	o, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateType, orderID, func() *Order {
		return &Order{}
	})
	if err != nil {
		return nil, err
	}
	if !found || o.Deleted {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) snapshot(ctx context.Context, o *Order, stored *store.Event) {
	if stored == nil {
		return
	}
	o.Version = stored.Version
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, o, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", o.ID, err)
	}
}
