package rbac

// Permission tokens follow the <module>.<action> convention. The namespace is
// open-ended: gates may ask for tokens not listed here and the registry simply
// reports them as not granted. The constants exist so call sites and seeds stay
// in sync, not to close the set.
const (
	PermLogsView   = "logs.view"
	PermLogsExport = "logs.export"

	PermUsersView   = "users.view"
	PermUsersCreate = "users.create"
	PermUsersEdit   = "users.edit"
	PermUsersDelete = "users.delete"

	PermRolesView = "roles.view"
	PermRolesEdit = "roles.edit"

	PermInventoryView   = "inventory.view"
	PermInventoryCreate = "inventory.create"
	PermInventoryEdit   = "inventory.edit"
	PermInventoryDelete = "inventory.delete"

	PermExpensesView   = "expenses.view"
	PermExpensesCreate = "expenses.create"
	PermExpensesEdit   = "expenses.edit"
	PermExpensesDelete = "expenses.delete"

	PermTaxesView = "taxes.view"
	PermTaxesEdit = "taxes.edit"

	PermIncidentsView   = "incidents.view"
	PermIncidentsCreate = "incidents.create"
	PermIncidentsEdit   = "incidents.edit"

	PermEventsView   = "events.view"
	PermEventsCreate = "events.create"
	PermEventsEdit   = "events.edit"

	PermChatView = "chat.view"
	PermChatSend = "chat.send"

	PermWarehousesView   = "warehouses.view"
	PermWarehousesCreate = "warehouses.create"
)

// allPermissions is the full token set granted to super_admin.
var allPermissions = []string{
	PermLogsView, PermLogsExport,
	PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
	PermRolesView, PermRolesEdit,
	PermInventoryView, PermInventoryCreate, PermInventoryEdit, PermInventoryDelete,
	PermExpensesView, PermExpensesCreate, PermExpensesEdit, PermExpensesDelete,
	PermTaxesView, PermTaxesEdit,
	PermIncidentsView, PermIncidentsCreate, PermIncidentsEdit,
	PermEventsView, PermEventsCreate, PermEventsEdit,
	PermChatView, PermChatSend,
	PermWarehousesView, PermWarehousesCreate,
}

// defaultGrants seeds the registry. Every defined role has an entry, even when
// empty, so lookups never distinguish "no grants" from "no role".
func defaultGrants() map[Role][]string {
	return map[Role][]string{
		RoleSuperAdmin: allPermissions,
		RoleAdmin: {
			PermLogsView, PermLogsExport,
			PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
			PermRolesView,
			PermInventoryView, PermInventoryCreate, PermInventoryEdit, PermInventoryDelete,
			PermExpensesView, PermExpensesCreate, PermExpensesEdit, PermExpensesDelete,
			PermTaxesView, PermTaxesEdit,
			PermIncidentsView, PermIncidentsCreate, PermIncidentsEdit,
			PermEventsView, PermEventsCreate, PermEventsEdit,
			PermChatView, PermChatSend,
			PermWarehousesView, PermWarehousesCreate,
		},
		RoleWarehouseManager: {
			PermLogsView,
			PermInventoryView, PermInventoryCreate, PermInventoryEdit, PermInventoryDelete,
			PermIncidentsView, PermIncidentsCreate, PermIncidentsEdit,
			PermWarehousesView, PermWarehousesCreate,
		},
		RoleShopManager: {
			PermInventoryView,
			PermExpensesView, PermExpensesCreate, PermExpensesEdit, PermExpensesDelete,
			PermTaxesView, PermTaxesEdit,
			PermIncidentsView, PermIncidentsCreate,
			PermEventsView, PermEventsCreate, PermEventsEdit,
			PermChatView, PermChatSend,
			PermWarehousesView,
		},
		RoleCustom: {},
	}
}
