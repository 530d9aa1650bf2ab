package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// FinanceRepository persists letters of credit and loans, the tracked
// obligations that feed liability accounts and notifications.
type FinanceRepository interface {
	SaveLetterOfCredit(ctx context.Context, lc domain.LetterOfCredit) error
	FindLetterOfCreditByID(ctx context.Context, lcID string) (*domain.LetterOfCredit, error)
	ListLettersOfCredit(ctx context.Context, companyID string, limit, offset int) ([]domain.LetterOfCredit, error)

	// FindExpiringLCs retrieves open LCs expiring in (asOf, asOf+window].
	FindExpiringLCs(ctx context.Context, companyID string, asOf time.Time, window time.Duration) ([]domain.LetterOfCredit, error)

	SaveLoan(ctx context.Context, loan domain.Loan) error
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, companyID string, limit, offset int) ([]domain.Loan, error)

	// FindMaturingLoans retrieves open loans maturing in (asOf, asOf+window].
	FindMaturingLoans(ctx context.Context, companyID string, asOf time.Time, window time.Duration) ([]domain.Loan, error)
}
