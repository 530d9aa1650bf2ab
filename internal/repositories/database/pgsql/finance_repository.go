package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

const lcColumns = `lc_id, company_id, vendor_id, number, bank_name, currency_code, exchange_rate, amount, amount_base, issue_date, expiry_date, status, created_at, created_by, last_updated_at, last_updated_by`

const loanColumns = `loan_id, company_id, lender_name, principal, interest_rate, start_date, maturity_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxFinanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxFinanceRepository creates a new repository for letters of credit and loans.
func newPgxFinanceRepository(pool *pgxpool.Pool) portsrepo.FinanceRepository {
	return &PgxFinanceRepository{pool: pool}
}

var _ portsrepo.FinanceRepository = (*PgxFinanceRepository)(nil)

func scanLC(row pgx.Row) (domain.LetterOfCredit, error) {
	var lc domain.LetterOfCredit
	err := row.Scan(
		&lc.LCID,
		&lc.CompanyID,
		&lc.VendorID,
		&lc.Number,
		&lc.BankName,
		&lc.CurrencyCode,
		&lc.ExchangeRate,
		&lc.Amount,
		&lc.AmountBase,
		&lc.IssueDate,
		&lc.ExpiryDate,
		&lc.Status,
		&lc.CreatedAt,
		&lc.CreatedBy,
		&lc.LastUpdatedAt,
		&lc.LastUpdatedBy,
	)
	return lc, err
}

func scanLoan(row pgx.Row) (domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(
		&l.LoanID,
		&l.CompanyID,
		&l.LenderName,
		&l.Principal,
		&l.InterestRate,
		&l.StartDate,
		&l.MaturityDate,
		&l.Status,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

// SaveLetterOfCredit inserts a new letter of credit.
func (r *PgxFinanceRepository) SaveLetterOfCredit(ctx context.Context, lc domain.LetterOfCredit) error {
	query := `
		INSERT INTO letters_of_credit (` + lcColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`

	_, err := r.pool.Exec(ctx, query,
		lc.LCID,
		lc.CompanyID,
		lc.VendorID,
		lc.Number,
		lc.BankName,
		lc.CurrencyCode,
		lc.ExchangeRate,
		lc.Amount,
		lc.AmountBase,
		lc.IssueDate,
		lc.ExpiryDate,
		lc.Status,
		lc.CreatedAt,
		lc.CreatedBy,
		lc.LastUpdatedAt,
		lc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: LC number %s already exists in company %s", apperrors.ErrDuplicate, lc.Number, lc.CompanyID)
		}
		return fmt.Errorf("failed to save letter of credit %s: %w", lc.LCID, err)
	}
	return nil
}

// FindLetterOfCreditByID retrieves a letter of credit by its ID.
func (r *PgxFinanceRepository) FindLetterOfCreditByID(ctx context.Context, lcID string) (*domain.LetterOfCredit, error) {
	query := `SELECT ` + lcColumns + ` FROM letters_of_credit WHERE lc_id = $1;`

	lc, err := scanLC(r.pool.QueryRow(ctx, query, lcID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find letter of credit by ID %s: %w", lcID, err)
	}
	return &lc, nil
}

// ListLettersOfCredit retrieves letters of credit for a company, newest issue first.
func (r *PgxFinanceRepository) ListLettersOfCredit(ctx context.Context, companyID string, limit, offset int) ([]domain.LetterOfCredit, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + lcColumns + `
		FROM letters_of_credit
		WHERE company_id = $1
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query letters of credit for company %s: %w", companyID, err)
	}
	defer rows.Close()

	lcs := []domain.LetterOfCredit{}
	for rows.Next() {
		lc, err := scanLC(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan letter of credit row: %w", err)
		}
		lcs = append(lcs, lc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating letter of credit rows: %w", err)
	}

	return lcs, nil
}

// FindExpiringLCs retrieves open LCs expiring in (asOf, asOf+window].
func (r *PgxFinanceRepository) FindExpiringLCs(ctx context.Context, companyID string, asOf time.Time, window time.Duration) ([]domain.LetterOfCredit, error) {
	query := `
		SELECT ` + lcColumns + `
		FROM letters_of_credit
		WHERE company_id = $1 AND status = $2 AND expiry_date > $3 AND expiry_date <= $4
		ORDER BY expiry_date;
	`

	rows, err := r.pool.Query(ctx, query, companyID, domain.ObligationOpen, asOf, asOf.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring LCs for company %s: %w", companyID, err)
	}
	defer rows.Close()

	lcs := []domain.LetterOfCredit{}
	for rows.Next() {
		lc, err := scanLC(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expiring LC row: %w", err)
		}
		lcs = append(lcs, lc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expiring LC rows: %w", err)
	}

	return lcs, nil
}

// SaveLoan inserts a new loan.
func (r *PgxFinanceRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	_, err := r.pool.Exec(ctx, query,
		loan.LoanID,
		loan.CompanyID,
		loan.LenderName,
		loan.Principal,
		loan.InterestRate,
		loan.StartDate,
		loan.MaturityDate,
		loan.Status,
		loan.CreatedAt,
		loan.CreatedBy,
		loan.LastUpdatedAt,
		loan.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: loan %s already exists", apperrors.ErrDuplicate, loan.LoanID)
		}
		return fmt.Errorf("failed to save loan %s: %w", loan.LoanID, err)
	}
	return nil
}

// FindLoanByID retrieves a loan by its ID.
func (r *PgxFinanceRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	loan, err := scanLoan(r.pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}
	return &loan, nil
}

// ListLoans retrieves loans for a company, newest start first.
func (r *PgxFinanceRepository) ListLoans(ctx context.Context, companyID string, limit, offset int) ([]domain.Loan, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE company_id = $1
		ORDER BY start_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans for company %s: %w", companyID, err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}

	return loans, nil
}

// FindMaturingLoans retrieves open loans maturing in (asOf, asOf+window].
func (r *PgxFinanceRepository) FindMaturingLoans(ctx context.Context, companyID string, asOf time.Time, window time.Duration) ([]domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE company_id = $1 AND status = $2 AND maturity_date > $3 AND maturity_date <= $4
		ORDER BY maturity_date;
	`

	rows, err := r.pool.Query(ctx, query, companyID, domain.ObligationOpen, asOf, asOf.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to query maturing loans for company %s: %w", companyID, err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maturing loan row: %w", err)
		}
		loans = append(loans, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating maturing loan rows: %w", err)
	}

	return loans, nil
}
