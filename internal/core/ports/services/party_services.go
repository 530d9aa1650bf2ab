package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// PartySvcFacade manages customers and vendors.
type PartySvcFacade interface {
	CreateCustomer(ctx context.Context, companyID string, req dto.CreatePartyRequest, actor domain.Identity) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, companyID, customerID string, actor domain.Identity) (*domain.Customer, error)
	ListCustomers(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Customer, error)

	CreateVendor(ctx context.Context, companyID string, req dto.CreatePartyRequest, actor domain.Identity) (*domain.Vendor, error)
	GetVendorByID(ctx context.Context, companyID, vendorID string, actor domain.Identity) (*domain.Vendor, error)
	ListVendors(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Vendor, error)
}
