package warehouse

// Warehouse is the record shape the external warehouse API exchanges. Only ID
// and Name are guaranteed; everything else is optional and omitted when empty.
type Warehouse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Code                  string `json:"code,omitempty"`
	Address               string `json:"address,omitempty"`
	City                  string `json:"city,omitempty"`
	State                 string `json:"state,omitempty"`
	PostalCode            string `json:"postal_code,omitempty"`
	Country               string `json:"country,omitempty"`
	PhoneNumber           string `json:"phone_number,omitempty"`
	Email                 string `json:"email,omitempty"`
	ManagerID             string `json:"manager_id,omitempty"`
	Capacity              int    `json:"capacity,omitempty"`
	WarehouseType         string `json:"warehouse_type,omitempty"`
	OperatingHours        string `json:"operating_hours,omitempty"`
	TemperatureControlled bool   `json:"temperature_controlled,omitempty"`
	SecurityLevel         string `json:"security_level,omitempty"`
	CreatedAt             string `json:"created_at,omitempty"`
	UpdatedAt             string `json:"updated_at,omitempty"`
}

// CreateRequest carries the same optional fields as Warehouse, minus the
// server-assigned ID and timestamps.
type CreateRequest struct {
	Name                  string `json:"name"`
	Code                  string `json:"code,omitempty"`
	Address               string `json:"address,omitempty"`
	City                  string `json:"city,omitempty"`
	State                 string `json:"state,omitempty"`
	PostalCode            string `json:"postal_code,omitempty"`
	Country               string `json:"country,omitempty"`
	PhoneNumber           string `json:"phone_number,omitempty"`
	Email                 string `json:"email,omitempty"`
	ManagerID             string `json:"manager_id,omitempty"`
	Capacity              int    `json:"capacity,omitempty"`
	WarehouseType         string `json:"warehouse_type,omitempty"`
	OperatingHours        string `json:"operating_hours,omitempty"`
	TemperatureControlled bool   `json:"temperature_controlled,omitempty"`
	SecurityLevel         string `json:"security_level,omitempty"`
}
