package employee

import "fmt"

const (
	PermDashboard  = "dashboard"
	PermCategories = "categories"
	PermCustomers  = "customers"
	PermProducts   = "products"
	PermOrders     = "orders"
	PermEmployees  = "employees"
)

// Permissions lists every permission tag in canonical order
var Permissions = []string{
	PermDashboard,
	PermCategories,
	PermCustomers,
	PermProducts,
	PermOrders,
	PermEmployees,
}

const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleStaff   = "Staff"
)

var Roles = []string{RoleAdmin, RoleManager, RoleStaff}

// NormalizePermissions de-duplicates perms and sorts them into canonical
// order. The result is never nil.
func NormalizePermissions(perms []string) ([]string, error) {
	granted := make(map[string]bool, len(perms))
	for _, p := range perms {
		if !isPermission(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, p)
		}
		granted[p] = true
	}

	out := make([]string, 0, len(granted))
	for _, p := range Permissions {
		if granted[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func isPermission(p string) bool {
	for _, known := range Permissions {
		if p == known {
			return true
		}
	}
	return false
}

func isRole(r string) bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}
