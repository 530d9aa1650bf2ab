package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// partyService manages customers and vendors.
type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepository
}

// NewPartyService creates a new party service.
func NewPartyService(partyRepo portsrepo.PartyRepository) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateCustomer(ctx context.Context, companyID string, req dto.CreatePartyRequest, actor domain.Identity) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		CompanyID:  companyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.partyRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to create customer", slog.String("company_id", companyID))
		return nil, err
	}
	return &customer, nil
}

func (s *partyService) GetCustomerByID(ctx context.Context, companyID, customerID string, actor domain.Identity) (*domain.Customer, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return customer, nil
}

func (s *partyService) ListCustomers(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Customer, error) {
	return s.partyRepo.ListCustomers(ctx, companyID, limit, offset)
}

func (s *partyService) CreateVendor(ctx context.Context, companyID string, req dto.CreatePartyRequest, actor domain.Identity) (*domain.Vendor, error) {
	now := time.Now().UTC()
	vendor := domain.Vendor{
		VendorID:  uuid.NewString(),
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.partyRepo.SaveVendor(ctx, vendor); err != nil {
		s.LogError(ctx, err, "Failed to create vendor", slog.String("company_id", companyID))
		return nil, err
	}
	return &vendor, nil
}

func (s *partyService) GetVendorByID(ctx context.Context, companyID, vendorID string, actor domain.Identity) (*domain.Vendor, error) {
	vendor, err := s.partyRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return vendor, nil
}

func (s *partyService) ListVendors(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Vendor, error) {
	return s.partyRepo.ListVendors(ctx, companyID, limit, offset)
}
