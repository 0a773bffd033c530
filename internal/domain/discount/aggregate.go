package discount

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

const AggregateType = "Discount"

const (
	TypeCategory = "category"
	TypeProduct  = "product"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	// StatusExpired only appears on imported records
	StatusExpired = "expired"
)

var (
	ErrDiscountNotFound = errors.New("discount not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidType      = errors.New("type must be category or product")
	ErrInvalidValue     = errors.New("value must be between 1 and 100")
	ErrInvalidDate      = errors.New("dates must use YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidStatus    = errors.New("status must be active or inactive")
	ErrTooManyTargets   = errors.New("a category discount has a single target")
)

type Discount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	Value     int       `json:"value"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    string    `json:"status"`
	Deleted   bool      `json:"deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

func (d *Discount) GetID() string    { return d.ID }
func (d *Discount) GetVersion() int  { return d.Version }
func (d *Discount) SetVersion(v int) { d.Version = v }

func (d *Discount) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventDiscountCreated:
		var data DiscountCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		*d = Discount{
			ID:        data.DiscountID,
			Name:      data.Name,
			Type:      data.Type,
			Target:    data.Target,
			Value:     data.Value,
			StartDate: data.StartDate,
			EndDate:   data.EndDate,
			Status:    data.Status,
			CreatedAt: data.CreatedAt,
			UpdatedAt: data.CreatedAt,
		}
	case EventDiscountUpdated:
		var data DiscountUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		d.Name = data.Name
		d.Value = data.Value
		d.StartDate = data.StartDate
		d.EndDate = data.EndDate
		d.Status = data.Status
		d.UpdatedAt = data.UpdatedAt
	case EventDiscountDeleted:
		d.Deleted = true
	}
	d.Version = event.Version
	return nil
}

// Terms are the editable fields shared by create and update
type Terms struct {
	Name      string
	Value     int
	StartDate string
	EndDate   string
	Status    string
}

func (t *Terms) normalize(today time.Time, allowed ...string) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Value < 1 || t.Value > 100 {
		return ErrInvalidValue
	}
	if t.StartDate == "" {
		t.StartDate = today.Format(DateLayout)
	}
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	if t.EndDate != "" {
		end, err := time.Parse(DateLayout, t.EndDate)
		if err != nil {
			return ErrInvalidDate
		}
		if end.Before(start) {
			return ErrInvalidDateRange
		}
	}
	if t.Status == "" {
		t.Status = StatusActive
	}
	for _, s := range allowed {
		if t.Status == s {
			return nil
		}
	}
	return ErrInvalidStatus
}

type Service struct {
	eventStore store.EventStoreInterface
	mu         sync.Mutex
	now        func() time.Time
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es, now: time.Now}
}

// Create appends one discount per target under consecutive ids. A product
// discount over N product names yields N discounts; a category discount has
// exactly one target. No targets means a single discount with an empty target.
func (s *Service) Create(ctx context.Context, discountType string, targets []string, terms Terms) ([]*Discount, error) {
	return s.create(ctx, discountType, targets, terms, StatusActive, StatusInactive)
}

// Import is Create for seeded records, which may carry the stored status "expired"
func (s *Service) Import(ctx context.Context, discountType, target string, terms Terms) (*Discount, error) {
	created, err := s.create(ctx, discountType, []string{target}, terms, StatusActive, StatusInactive, StatusExpired)
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *Service) create(ctx context.Context, discountType string, targets []string, terms Terms, allowed ...string) ([]*Discount, error) {
	if discountType != TypeCategory && discountType != TypeProduct {
		return nil, ErrInvalidType
	}
	if err := terms.normalize(s.now(), allowed...); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		targets = []string{""}
	}
	if discountType == TypeCategory && len(targets) > 1 {
		return nil, ErrTooManyTargets
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := aggregate.LiveIDs(s.eventStore, AggregateType, EventDiscountDeleted, EventDiscountCreated)
	first := idgen.NextSequence(ids)
	now := time.Now()

	created := make([]*Discount, 0, len(targets))
	for i, target := range targets {
		discountID := strconv.Itoa(first + i)
		event := DiscountCreated{
			DiscountID: discountID,
			Name:       terms.Name,
			Type:       discountType,
			Target:     target,
			Value:      terms.Value,
			StartDate:  terms.StartDate,
			EndDate:    terms.EndDate,
			Status:     terms.Status,
			CreatedAt:  now,
		}

		stored, err := s.eventStore.Append(ctx, discountID, AggregateType, EventDiscountCreated, event)
		if err != nil {
			return created, err
		}

		d := &Discount{
			ID:        discountID,
			Name:      terms.Name,
			Type:      discountType,
			Target:    target,
			Value:     terms.Value,
			StartDate: terms.StartDate,
			EndDate:   terms.EndDate,
			Status:    terms.Status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.snapshot(ctx, d, stored)
		created = append(created, d)
	}
	return created, nil
}

// Update edits name, value, dates and status; type and target stay fixed
func (s *Service) Update(ctx context.Context, discountID string, terms Terms) error {
	d, err := s.load(ctx, discountID)
	if err != nil {
		return err
	}
	if err := terms.normalize(s.now(), StatusActive, StatusInactive); err != nil {
		return err
	}

	event := DiscountUpdated{
		DiscountID: discountID,
		Name:       terms.Name,
		Value:      terms.Value,
		StartDate:  terms.StartDate,
		EndDate:    terms.EndDate,
		Status:     terms.Status,
		UpdatedAt:  time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, discountID, AggregateType, EventDiscountUpdated, event)
	if err != nil {
		return err
	}

	d.Name, d.Value, d.StartDate, d.EndDate, d.Status = terms.Name, terms.Value, terms.StartDate, terms.EndDate, terms.Status
	d.UpdatedAt = event.UpdatedAt
	s.snapshot(ctx, d, stored)
	return nil
}

func (s *Service) Delete(ctx context.Context, discountID string) error {
	if _, err := s.load(ctx, discountID); err != nil {
		return err
	}

	_, err := s.eventStore.Append(ctx, discountID, AggregateType, EventDiscountDeleted, DiscountDeleted{
		DiscountID: discountID,
		DeletedAt:  time.Now(),
	})
	return err
}

func (s *Service) load(ctx context.Context, discountID string) (*Discount, error) {
	d, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateType, discountID, func() *Discount {
		return &Discount{}
	})
	if err != nil {
		return nil, err
	}
	if !found || d.Deleted {
		return nil, ErrDiscountNotFound
	}
	return d, nil
}

func (s *Service) snapshot(ctx context.Context, d *Discount, stored *store.Event) {
	if stored == nil {
		return
	}
	d.Version = stored.Version
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, d, AggregateType); err != nil {
		log.Printf("[Discount] Failed to create snapshot for discount %s: %v", d.ID, err)
	}
}
