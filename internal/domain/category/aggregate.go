package category

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

const AggregateType = "Category"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidName      = errors.New("name is required")
)

// Category represents a product category
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Deleted     bool      `json:"deleted,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

func (c *Category) GetID() string    { return c.ID }
func (c *Category) GetVersion() int  { return c.Version }
func (c *Category) SetVersion(v int) { c.Version = v }

// ApplyEvent applies a single event to the category state
func (c *Category) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventCategoryCreated:
		var data CategoryCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		*c = Category{
			ID:          data.CategoryID,
			Name:        data.Name,
			Description: data.Description,
			Active:      data.Active,
			CreatedAt:   data.CreatedAt,
			UpdatedAt:   data.CreatedAt,
		}
	case EventCategoryUpdated:
		var data CategoryUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Name = data.Name
		c.Description = data.Description
		c.Active = data.Active
		c.UpdatedAt = data.UpdatedAt
	case EventCategoryDeleted:
		var data CategoryDeleted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Deleted = true
		c.UpdatedAt = data.DeletedAt
	}
	c.Version = event.Version
	return nil
}

// Service handles category domain operations
type Service struct {
	eventStore store.EventStoreInterface
	mu         sync.Mutex // serialises id allocation
}

// NewService creates a new category service
func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Create creates a new category with the next free numeric id
func (s *Service) Create(ctx context.Context, name, description string, active bool) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := aggregate.LiveIDs(s.eventStore, AggregateType, EventCategoryDeleted, EventCategoryCreated)
	categoryID := strconv.Itoa(idgen.NextSequence(ids))

	event := CategoryCreated{
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		Active:      active,
		CreatedAt:   time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, categoryID, AggregateType, EventCategoryCreated, event)
	if err != nil {
		return nil, err
	}

	c := &Category{
		ID:          categoryID,
		Name:        name,
		Description: description,
		Active:      active,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.CreatedAt,
	}
	s.snapshot(ctx, c, stored)
	return c, nil
}

// Update edits an existing category
func (s *Service) Update(ctx context.Context, categoryID, name, description string, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	c, err := s.load(ctx, categoryID)
	if err != nil {
		return err
	}

	event := CategoryUpdated{
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		Active:      active,
		UpdatedAt:   time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, categoryID, AggregateType, EventCategoryUpdated, event)
	if err != nil {
		return err
	}

	c.Name, c.Description, c.Active, c.UpdatedAt = name, description, active, event.UpdatedAt
	s.snapshot(ctx, c, stored)
	return nil
}

// Delete removes a category; other categories are untouched
func (s *Service) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.load(ctx, categoryID); err != nil {
		return err
	}

	event := CategoryDeleted{
		CategoryID: categoryID,
		DeletedAt:  time.Now(),
	}

	_, err := s.eventStore.Append(ctx, categoryID, AggregateType, EventCategoryDeleted, event)
	return err
}

func (s *Service) load(ctx context.Context, categoryID string) (*Category, error) {
	c, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateType, categoryID, func() *Category {
		return &Category{}
	})
	if err != nil {
		return nil, err
	}
	if !found || c.Deleted {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *Service) snapshot(ctx context.Context, c *Category, stored *store.Event) {
	if stored == nil {
		return
	}
	c.Version = stored.Version
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, c, AggregateType); err != nil {
		log.Printf("[Category] Failed to create snapshot for category %s: %v", c.ID, err)
	}
}
