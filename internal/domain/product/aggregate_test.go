package product

import (
	"context"
	"regexp"
	"testing"

	"github.com/example/herbal-backoffice/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func chamomile(stock int) Details {
	return Details{
		Name:         "Chamomile Tea",
		Category:     "Herbal Teas",
		CostPrice:    850,
		SellingPrice: 1599,
		Stock:        stock,
	}
}

// ============================================
// Create Product Tests
// ============================================

func TestService_Create_GeneratesCode(t *testing.T) {
	service, eventStore := newTestProductService()

	p, err := service.Create(context.Background(), "", chamomile(120))

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PRD[0-9]{3}$`), p.ID)
	assert.Equal(t, StatusInStock, p.Status)
	assert.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductCreated, eventStore.AppendCalls[0].EventType)
}

func TestService_Create_CallerID(t *testing.T) {
	service, _ := newTestProductService()

	p, err := service.Create(context.Background(), "PRD003", chamomile(8))

	require.NoError(t, err)
	assert.Equal(t, "PRD003", p.ID)
	assert.Equal(t, StatusLowStock, p.Status)
}

func TestService_Create_DuplicateID(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	_, err := service.Create(ctx, "PRD001", chamomile(1))
	require.NoError(t, err)

	_, err = service.Create(ctx, "PRD001", chamomile(1))

	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, eventStore.AppendCalls, 1)
}

func TestService_Create_StatusDerivedFromStock(t *testing.T) {
	service, eventStore := newTestProductService()

	p, err := service.Create(context.Background(), "", chamomile(0))

	require.NoError(t, err)
	assert.Equal(t, StatusOutOfStock, p.Status)
	data := eventStore.AppendCalls[0].Data.(ProductCreated)
	assert.Equal(t, StatusOutOfStock, data.Status)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Details)
		wantErr error
	}{
		{"missing name", func(d *Details) { d.Name = "" }, ErrInvalidName},
		{"negative cost", func(d *Details) { d.CostPrice = -1 }, ErrInvalidPrice},
		{"negative price", func(d *Details) { d.SellingPrice = -1 }, ErrInvalidPrice},
		{"negative stock", func(d *Details) { d.Stock = -3 }, ErrNegativeStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, eventStore := newTestProductService()
			d := chamomile(5)
			tt.mutate(&d)

			_, err := service.Create(context.Background(), "", d)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, eventStore.AppendCalls)
		})
	}
}

// ============================================
// Update / Adjust Tests
// ============================================

func TestService_Update_RederivesStatus(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	_, err := service.Create(ctx, "PRD001", chamomile(120))
	require.NoError(t, err)

	p, err := service.Update(ctx, "PRD001", chamomile(10))

	require.NoError(t, err)
	assert.Equal(t, StatusLowStock, p.Status)

	reloaded, err := service.load(ctx, "PRD001")
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Stock)
	assert.Equal(t, StatusLowStock, reloaded.Status)
}

func TestService_Update_NotFound(t *testing.T) {
	service, _ := newTestProductService()

	_, err := service.Update(context.Background(), "PRD404", chamomile(1))

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_AdjustStock(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	_, err := service.Create(ctx, "PRD001", chamomile(12))
	require.NoError(t, err)

	p, err := service.AdjustStock(ctx, "PRD001", -12, "stock count")

	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, StatusOutOfStock, p.Status)
	assert.Equal(t, EventProductStockAdjusted, eventStore.AppendCalls[1].EventType)

	p, err = service.AdjustStock(ctx, "PRD001", 11, "delivery")
	require.NoError(t, err)
	assert.Equal(t, StatusInStock, p.Status)
}

func TestService_AdjustStock_BelowZero(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	_, _ = service.Create(ctx, "PRD001", chamomile(2))

	_, err := service.AdjustStock(ctx, "PRD001", -3, "")

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Len(t, eventStore.AppendCalls, 1)
}

func TestService_Delete(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	_, _ = service.Create(ctx, "PRD001", chamomile(2))
	_, _ = service.Create(ctx, "PRD002", chamomile(2))

	require.NoError(t, service.Delete(ctx, "PRD001"))

	_, err := service.load(ctx, "PRD001")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = service.load(ctx, "PRD002")
	assert.NoError(t, err)
	assert.ErrorIs(t, service.Delete(ctx, "PRD001"), ErrProductNotFound)
}
