package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// PartyRepository persists customers and vendors, the counterparty
// dimensions of invoices and aging reports.
type PartyRepository interface {
	SaveCustomer(ctx context.Context, customer domain.Customer) error
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, companyID string, limit, offset int) ([]domain.Customer, error)

	SaveVendor(ctx context.Context, vendor domain.Vendor) error
	FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)
	ListVendors(ctx context.Context, companyID string, limit, offset int) ([]domain.Vendor, error)
}
