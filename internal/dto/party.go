package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CreatePartyRequest is the shared payload for creating a customer or vendor.
type CreatePartyRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// CustomerResponse is the API shape of a customer.
type CustomerResponse struct {
	CustomerID string    `json:"customerID"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VendorResponse is the API shape of a vendor.
type VendorResponse struct {
	VendorID  string    `json:"vendorID"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToCustomerResponse converts a domain customer to its API shape.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
	}
}

// ToVendorResponse converts a domain vendor to its API shape.
func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		VendorID:  v.VendorID,
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
	}
}
