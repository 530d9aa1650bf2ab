package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// FinanceSvcFacade tracks letters of credit and loans.
type FinanceSvcFacade interface {
	CreateLetterOfCredit(ctx context.Context, companyID string, req dto.CreateLCRequest, actor domain.Identity) (*domain.LetterOfCredit, error)
	GetLetterOfCreditByID(ctx context.Context, companyID, lcID string, actor domain.Identity) (*domain.LetterOfCredit, error)
	ListLettersOfCredit(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.LetterOfCredit, error)

	CreateLoan(ctx context.Context, companyID string, req dto.CreateLoanRequest, actor domain.Identity) (*domain.Loan, error)
	GetLoanByID(ctx context.Context, companyID, loanID string, actor domain.Identity) (*domain.Loan, error)
	ListLoans(ctx context.Context, companyID string, actor domain.Identity, limit, offset int) ([]domain.Loan, error)
}
