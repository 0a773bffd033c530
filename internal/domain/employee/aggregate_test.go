package employee

import (
	"context"
	"testing"

	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmployeeService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	return NewService(eventStore), eventStore
}

func clerk() Details {
	return Details{Name: "Inventory Clerk", Email: "inventory@herbalcrm.com"}
}

// ============================================
// Create Tests
// ============================================

func TestService_Create_Defaults(t *testing.T) {
	service, eventStore := newTestEmployeeService()

	e, err := service.Create(context.Background(), clerk(), "")

	require.NoError(t, err)
	assert.Equal(t, "1", e.ID)
	assert.Equal(t, RoleStaff, e.Role)
	assert.Equal(t, []string{PermDashboard}, e.Permissions)
	assert.Equal(t, StatusActive, e.Status)
	assert.Empty(t, e.PasswordHash)
	assert.Equal(t, EventEmployeeCreated, eventStore.AppendCalls[0].EventType)
}

func TestService_Create_NormalizesPermissions(t *testing.T) {
	service, _ := newTestEmployeeService()
	d := clerk()
	d.Role = RoleManager
	d.Permissions = []string{"orders", "customers", "orders", "dashboard"}

	e, err := service.Create(context.Background(), d, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard", "customers", "orders"}, e.Permissions)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Details)
		wantErr error
	}{
		{"missing name", func(d *Details) { d.Name = "" }, ErrInvalidName},
		{"missing email", func(d *Details) { d.Email = "" }, ErrInvalidEmail},
		{"bad role", func(d *Details) { d.Role = "Owner" }, ErrInvalidRole},
		{"bad status", func(d *Details) { d.Status = "away" }, ErrInvalidStatus},
		{"bad permission", func(d *Details) { d.Permissions = []string{"reports"} }, ErrInvalidPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, eventStore := newTestEmployeeService()
			d := clerk()
			tt.mutate(&d)

			_, err := service.Create(context.Background(), d, "")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, eventStore.AppendCalls)
		})
	}
}

func TestService_Create_ShortPassword(t *testing.T) {
	service, eventStore := newTestEmployeeService()

	_, err := service.Create(context.Background(), clerk(), "abc")

	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// Update Tests
// ============================================

func TestService_Update_PermissionToggle(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, err := service.Create(ctx, clerk(), "")
	require.NoError(t, err)

	d := clerk()
	d.Permissions = []string{"products", "dashboard"}
	require.NoError(t, service.Update(ctx, "1", d))

	e, err := service.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard", "products"}, e.Permissions)
}

func TestService_Update_CanClearPermissions(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, err := service.Create(ctx, clerk(), "")
	require.NoError(t, err)

	require.NoError(t, service.Update(ctx, "1", clerk()))

	e, err := service.Get(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, e.Permissions)
}

func TestService_Update_NotFound(t *testing.T) {
	service, _ := newTestEmployeeService()

	assert.ErrorIs(t, service.Update(context.Background(), "7", clerk()), ErrEmployeeNotFound)
}

func TestService_Delete(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, _ = service.Create(ctx, clerk(), "")

	require.NoError(t, service.Delete(ctx, "1"))

	_, err := service.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

// ============================================
// Profile Tests
// ============================================

func TestService_UpdateProfile(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, _ = service.Create(ctx, clerk(), "")

	err := service.UpdateProfile(ctx, "1", Profile{
		Name:      "Admin User",
		Email:     "admin@herbalcrm.com",
		Phone:     "+1 (555) 123-4567",
		Address:   "123 Herbal Street, Green City, 12345",
		Bio:       "Managing the back office.",
		AvatarURL: "/placeholder-user.jpg",
	})
	require.NoError(t, err)

	e, err := service.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Admin User", e.Name)
	assert.Equal(t, "+1 (555) 123-4567", e.Phone)
	assert.Equal(t, "/placeholder-user.jpg", e.AvatarURL)
	assert.Equal(t, RoleStaff, e.Role)
}

func TestService_UpdateProfile_RequiresName(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, _ = service.Create(ctx, clerk(), "")

	assert.ErrorIs(t, service.UpdateProfile(ctx, "1", Profile{Email: "x@y.z"}), ErrInvalidName)
}

func TestService_ChangePassword_Rules(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, err := service.Create(ctx, clerk(), "herbal123")
	require.NoError(t, err)

	tests := []struct {
		name                   string
		current, next, confirm string
		wantErr                error
		wantMsg                string
	}{
		{"missing current", "", "newpass1", "newpass1", ErrPasswordFieldsRequired, "All fields are required"},
		{"missing confirm", "herbal123", "newpass1", "", ErrPasswordFieldsRequired, "All fields are required"},
		{"mismatch", "herbal123", "newpass1", "newpass2", ErrPasswordMismatch, "New passwords don't match"},
		{"too short", "herbal123", "abc", "abc", auth.ErrPasswordTooShort, "Password must be at least 6 characters"},
		{"wrong current", "nothere", "newpass1", "newpass1", ErrWrongPassword, "current password is incorrect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ChangePassword(ctx, "1", tt.current, tt.next, tt.confirm)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestService_ChangePassword_Success(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, err := service.Create(ctx, clerk(), "herbal123")
	require.NoError(t, err)

	require.NoError(t, service.ChangePassword(ctx, "1", "herbal123", "newpass1", "newpass1"))

	_, err = service.Authenticate(ctx, "1", "newpass1")
	assert.NoError(t, err)
	_, err = service.Authenticate(ctx, "1", "herbal123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ============================================
// Authentication Tests
// ============================================

func TestService_Authenticate_Inactive(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	d := clerk()
	d.Status = StatusInactive
	_, err := service.Create(ctx, d, "herbal123")
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, "1", "herbal123")

	assert.ErrorIs(t, err, ErrEmployeeInactive)
}

func TestService_Authenticate_NoPasswordSet(t *testing.T) {
	service, _ := newTestEmployeeService()
	ctx := context.Background()
	_, _ = service.Create(ctx, clerk(), "")

	_, err := service.Authenticate(ctx, "1", "anything")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_UnknownEmployee(t *testing.T) {
	service, _ := newTestEmployeeService()

	_, err := service.Authenticate(context.Background(), "9", "anything")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RecordLogin(t *testing.T) {
	service, eventStore := newTestEmployeeService()
	ctx := context.Background()
	_, _ = service.Create(ctx, clerk(), "")

	require.NoError(t, service.RecordLogin(ctx, "1", "sess-1", "127.0.0.1", "test"))

	e, err := service.Get(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, e.LastLoginAt)
	assert.Equal(t, EventEmployeeLoggedIn, eventStore.AppendCalls[1].EventType)
}
