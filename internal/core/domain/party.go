package domain

// Customer is a receivable counterparty and a reporting dimension.
type Customer struct {
	CustomerID string `json:"customerID"` // Primary Key (e.g., UUID)
	CompanyID  string `json:"companyID"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}

// Vendor is a payable counterparty and a reporting dimension.
type Vendor struct {
	VendorID  string `json:"vendorID"` // Primary Key (e.g., UUID)
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}
