package employee

import (
	"context"
	"testing"

	"github.com/example/herbal-backoffice/internal/domain/category"
	"github.com/example/herbal-backoffice/internal/domain/customer"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Shared Event Store Tests
// ============================================

func TestSharedStore_SameIDAcrossTypes(t *testing.T) {
	es := store.NewEventStore(nil)
	ctx := context.Background()
	categories := category.NewService(es)
	customers := customer.NewService(es)
	employees := NewService(es)

	c, err := customers.Create(ctx, customer.Details{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	require.Equal(t, "1", c.ID)

	err = categories.Update(ctx, "1", "Herbs", "", true)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.ErrorIs(t, categories.Delete(ctx, "1"), category.ErrCategoryNotFound)

	admin, err := employees.Create(ctx, Details{Name: "Admin User", Email: "admin@herbalcrm.com", Role: RoleAdmin}, "secret123")
	require.NoError(t, err)
	require.Equal(t, "1", admin.ID)

	cat, err := categories.Create(ctx, "Herbs", "Dried herbs", true)
	require.NoError(t, err)
	require.Equal(t, "1", cat.ID)

	// enough edits to take several category snapshots
	for i := 0; i < 2*store.SnapshotThreshold+2; i++ {
		require.NoError(t, categories.Update(ctx, "1", "Herbs", "Dried herbs", i%2 == 0))
	}

	got, err := employees.Authenticate(ctx, "1", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "admin@herbalcrm.com", got.Email)
	assert.Equal(t, RoleAdmin, got.Role)

	loaded, err := customers.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", loaded.Name)
}
