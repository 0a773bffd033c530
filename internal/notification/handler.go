package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/herbal-backoffice/internal/domain/order"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/query"
	"github.com/example/herbal-backoffice/internal/readmodel"
)

// Mailer sends the order confirmation carrying the invoice
type Mailer interface {
	SendOrderConfirmation(to string, inv *query.Invoice) error
}

// Handler emails customers when an order is entered for them
type Handler struct {
	mailer    Mailer
	readStore store.ReadStoreInterface
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		mailer:    mailer,
		readStore: readStore,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}
	return h.Handle(ctx, event)
}

// Handle sends the confirmation for OrderCreated events. Imported orders are
// historic and get no mail.
func (h *Handler) Handle(_ context.Context, event store.Event) error {
	if event.EventType != order.EventOrderCreated {
		return nil
	}

	var e order.OrderCreated
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCreated event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderCreated event for order %s, customer %s", e.OrderID, e.CustomerID)

	data, exists := h.readStore.Get(readmodel.Customers, e.CustomerID)
	if !exists {
		log.Printf("[Notifier] Customer not found: %s", e.CustomerID)
		return nil
	}
	customer, ok := data.(*readmodel.CustomerReadModel)
	if !ok || customer.Email == "" {
		log.Printf("[Notifier] No email address for customer: %s", e.CustomerID)
		return nil
	}

	inv := query.BuildInvoice(orderFromEvent(e), customer)
	if err := h.mailer.SendOrderConfirmation(customer.Email, inv); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", customer.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", customer.Email, e.OrderID)
	return nil
}

// orderFromEvent builds the order from the event itself, since the read
// store may not have projected it yet.
func orderFromEvent(e order.OrderCreated) *readmodel.OrderReadModel {
	items := make([]readmodel.OrderItemReadModel, len(e.Items))
	for i, item := range e.Items {
		items[i] = readmodel.OrderItemReadModel{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return &readmodel.OrderReadModel{
		ID:         e.OrderID,
		CustomerID: e.CustomerID,
		Customer:   e.Customer,
		Date:       e.Date,
		Items:      items,
		Total:      e.Total,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.CreatedAt,
	}
}
