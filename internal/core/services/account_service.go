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

// accountService manages the chart of accounts of a company.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a ledger account. Only owners and admins may change
// the chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actor domain.Identity) (*domain.Account, error) {
	if !actor.HasRole(domain.RoleOwner, domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: only owners and admins may manage the chart of accounts", apperrors.ErrForbidden)
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Category:       req.Category,
		CashFlowType:   req.CashFlowType,
		OpeningBalance: opening,
		CurrentBalance: opening,
		AllowNegative:  req.AllowNegative,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to create account",
			slog.String("company_id", companyID), slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves one account, scoped to the company.
func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string, actor domain.Identity) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs batch-fetches accounts, verifying each belongs to the company.
func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, actor domain.Identity) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, account := range accounts {
		if account.CompanyID != companyID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves active accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
}

// DeactivateAccount soft-deletes an account. The posted history and the
// current balance remain untouched.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID, accountID string, actor domain.Identity) error {
	if !actor.HasRole(domain.RoleOwner, domain.RoleAdmin) {
		return fmt.Errorf("%w: only owners and admins may manage the chart of accounts", apperrors.ErrForbidden)
	}

	account, err := s.GetAccountByID(ctx, companyID, accountID, actor)
	if err != nil {
		return err
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor.UserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
