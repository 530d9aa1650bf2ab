package domain

import "time"

// Company is an isolated tenant owning accounts, journal entries, invoices
// and the rest of the bookkeeping state.
type Company struct {
	CompanyID        string `json:"companyID"` // Primary Key (e.g., UUID)
	Name             string `json:"name"`
	BaseCurrencyCode string `json:"baseCurrencyCode"` // Reporting currency, e.g. "USD"
	IsActive         bool   `json:"isActive"`
	AuditFields
}

// CompanyRole defines the capability level a user holds within a company.
type CompanyRole string

const (
	RoleAccountant CompanyRole = "ACCOUNTANT"
	RoleManager    CompanyRole = "MANAGER"
	RoleOwner      CompanyRole = "OWNER"
	RoleAdmin      CompanyRole = "ADMIN"
)

// CompanyMember is the membership of a user in a company, with the role that
// gates ledger transitions and an optional manager reference forming the
// reporting hierarchy.
type CompanyMember struct {
	UserID    string      `json:"userID"`
	CompanyID string      `json:"companyID"`
	Role      CompanyRole `json:"role"`
	ManagerID *string     `json:"managerID,omitempty"` // FK -> company_members.user_id within the same company
	JoinedAt  time.Time   `json:"joinedAt"`
}

// Identity is the caller context resolved by the external auth layer before
// any ledger operation is invoked. The core only authorizes; it never
// authenticates credentials.
type Identity struct {
	UserID string        `json:"userID"`
	Roles  []CompanyRole `json:"roles"`
}

// HasRole reports whether the identity carries any of the given roles.
func (id Identity) HasRole(roles ...CompanyRole) bool {
	for _, have := range id.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// MayOverrideOverdraft reports whether the identity may approve an entry
// that pushes a protected cash/bank account negative.
func (id Identity) MayOverrideOverdraft() bool {
	return id.HasRole(RoleOwner, RoleAdmin)
}

// MayBackdateFreely reports whether the identity may create future-dated
// documents.
func (id Identity) MayBackdateFreely() bool {
	return id.HasRole(RoleOwner, RoleAdmin)
}
