package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/herbal-backoffice/internal/domain/order"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/example/herbal-backoffice/internal/infrastructure/store/mocks"
	"github.com/example/herbal-backoffice/internal/query"
	"github.com/example/herbal-backoffice/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to  string
	inv *query.Invoice
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendOrderConfirmation(to string, inv *query.Invoice) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, inv: inv})
	return nil
}

func orderEvent(t *testing.T, eventType string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	value, err := json.Marshal(store.Event{
		ID:            "evt-1",
		AggregateID:   "ORD006",
		AggregateType: order.AggregateType,
		EventType:     eventType,
		Data:          raw,
		Timestamp:     time.Now(),
		Version:       1,
	})
	require.NoError(t, err)
	return value
}

func createdOrder() order.OrderCreated {
	return order.OrderCreated{
		OrderID:    "ORD006",
		CustomerID: "2",
		Customer:   "Sarah Johnson",
		Date:       "2023-07-20",
		Items:      []order.LineItem{{ProductID: "PRD002", Name: "Lavender Essential Oil", Quantity: 2, Price: 2499}},
		Total:      4998,
		Status:     order.StatusPending,
	}
}

func newTestHandler() (*Handler, *fakeMailer, *mocks.MockReadStore) {
	mailer := &fakeMailer{}
	readStore := mocks.NewMockReadStore()
	readStore.SetData(readmodel.Customers, "2", &readmodel.CustomerReadModel{
		ID: "2", Name: "Sarah Johnson", Email: "sarah.j@example.com", Address: "456 Oak Ave, Somewhere, NY 67890",
	})
	return NewHandler(mailer, readStore), mailer, readStore
}

func TestHandleEvent_OrderCreated_SendsInvoice(t *testing.T) {
	handler, mailer, _ := newTestHandler()

	err := handler.HandleEvent(context.Background(), []byte("ORD006"), orderEvent(t, order.EventOrderCreated, createdOrder()))

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sarah.j@example.com", mailer.sent[0].to)
	inv := mailer.sent[0].inv
	assert.Equal(t, "ORD006", inv.Number)
	assert.Equal(t, "456 Oak Ave, Somewhere, NY 67890", inv.BillTo.Address)
	assert.Equal(t, 4998, inv.Subtotal)
	assert.Equal(t, 8, inv.TaxRate)
}

func TestHandleEvent_ImportedOrderIgnored(t *testing.T) {
	handler, mailer, _ := newTestHandler()

	err := handler.HandleEvent(context.Background(), nil, orderEvent(t, order.EventOrderImported, order.OrderImported(createdOrder())))

	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_UnknownCustomerSkipped(t *testing.T) {
	handler, mailer, _ := newTestHandler()
	e := createdOrder()
	e.CustomerID = "42"

	err := handler.HandleEvent(context.Background(), nil, orderEvent(t, order.EventOrderCreated, e))

	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_CustomerWithoutEmailSkipped(t *testing.T) {
	handler, mailer, readStore := newTestHandler()
	readStore.SetData(readmodel.Customers, "2", &readmodel.CustomerReadModel{ID: "2", Name: "Sarah Johnson"})

	err := handler.HandleEvent(context.Background(), nil, orderEvent(t, order.EventOrderCreated, createdOrder()))

	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_MailerError(t *testing.T) {
	handler, mailer, _ := newTestHandler()
	mailer.err = errors.New("smtp down")

	err := handler.HandleEvent(context.Background(), nil, orderEvent(t, order.EventOrderCreated, createdOrder()))

	assert.Error(t, err)
}

func TestHandleEvent_InvalidJSON(t *testing.T) {
	handler, _, _ := newTestHandler()

	err := handler.HandleEvent(context.Background(), nil, []byte("not json"))

	assert.Error(t, err)
}
