package rbac

import "fmt"

// Role is the fixed set of roles an identity can hold. Custom keeps an
// administratively managed permission set; the rest are seeded at startup.
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleAdmin            Role = "admin"
	RoleWarehouseManager Role = "warehouse_manager"
	RoleShopManager      Role = "shop_manager"
	RoleCustom           Role = "custom"
)

// Roles lists every defined role in a stable order.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleWarehouseManager, RoleShopManager, RoleCustom}
}

// ParseRole validates a free-form string against the role enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleWarehouseManager, RoleShopManager, RoleCustom:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
