package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// AccountSvcFacade manages the chart of accounts of a company.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actor domain.Identity) (*domain.Account, error)

	GetAccountByID(ctx context.Context, companyID, accountID string, actor domain.Identity) (*domain.Account, error)

	// GetAccountsByIDs batch-fetches accounts, verifying each belongs to the
	// company. Used by journal validation.
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, actor domain.Identity) (map[string]domain.Account, error)

	ListAccounts(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Account, error)

	// DeactivateAccount soft-deletes an account; its posted history remains.
	DeactivateAccount(ctx context.Context, companyID, accountID string, actor domain.Identity) error
}
