package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// financeService tracks letters of credit and loans.
type financeService struct {
	BaseService
	financeRepo portsrepo.FinanceRepository
	partyRepo   portsrepo.PartyRepository
}

// NewFinanceService creates a new finance service.
func NewFinanceService(financeRepo portsrepo.FinanceRepository, partyRepo portsrepo.PartyRepository) portssvc.FinanceSvcFacade {
	return &financeService{financeRepo: financeRepo, partyRepo: partyRepo}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func (s *financeService) CreateLetterOfCredit(ctx context.Context, companyID string, req dto.CreateLCRequest, actor domain.Identity) (*domain.LetterOfCredit, error) {
	if !req.ExpiryDate.After(req.IssueDate) {
		return nil, fmt.Errorf("%w: expiry date must be after the issue date", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	vendor, err := s.partyRepo.FindVendorByID(ctx, req.VendorID)
	if err != nil || vendor.CompanyID != companyID || !vendor.IsActive {
		return nil, fmt.Errorf("%w: vendor %s is missing or inactive", apperrors.ErrValidation, req.VendorID)
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		exchangeRate = *req.ExchangeRate
	}
	if !exchangeRate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	lc := domain.LetterOfCredit{
		LCID:         uuid.NewString(),
		CompanyID:    companyID,
		VendorID:     req.VendorID,
		Number:       req.Number,
		BankName:     req.BankName,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: exchangeRate,
		Amount:       req.Amount,
		AmountBase:   req.Amount.Mul(exchangeRate),
		IssueDate:    req.IssueDate,
		ExpiryDate:   req.ExpiryDate,
		Status:       domain.ObligationOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.financeRepo.SaveLetterOfCredit(ctx, lc); err != nil {
		s.LogError(ctx, err, "Failed to create letter of credit",
			slog.String("company_id", companyID), slog.String("number", req.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Letter of credit created", slog.String("lc_id", lc.LCID))
	return &lc, nil
}

func (s *financeService) GetLetterOfCreditByID(ctx context.Context, companyID, lcID string, actor domain.Identity) (*domain.LetterOfCredit, error) {
	lc, err := s.financeRepo.FindLetterOfCreditByID(ctx, lcID)
	if err != nil {
		return nil, err
	}
	if lc.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return lc, nil
}

func (s *financeService) ListLettersOfCredit(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.LetterOfCredit, error) {
	return s.financeRepo.ListLettersOfCredit(ctx, companyID, limit, offset)
}

func (s *financeService) CreateLoan(ctx context.Context, companyID string, req dto.CreateLoanRequest, actor domain.Identity) (*domain.Loan, error) {
	if !req.MaturityDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: maturity date must be after the start date", apperrors.ErrValidation)
	}
	if !req.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if req.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:       uuid.NewString(),
		CompanyID:    companyID,
		LenderName:   req.LenderName,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		StartDate:    req.StartDate,
		MaturityDate: req.MaturityDate,
		Status:       domain.ObligationOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.financeRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to create loan", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan created", slog.String("loan_id", loan.LoanID))
	return &loan, nil
}

func (s *financeService) GetLoanByID(ctx context.Context, companyID, loanID string, actor domain.Identity) (*domain.Loan, error) {
	loan, err := s.financeRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return loan, nil
}

func (s *financeService) ListLoans(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Loan, error) {
	return s.financeRepo.ListLoans(ctx, companyID, limit, offset)
}
