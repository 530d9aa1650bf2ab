package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for report aggregation.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// appendFilterClauses renders the optional report filter into SQL conditions
// against aliases e (journal_entries) and l (journal_lines). It returns the
// extended where-clause and argument list.
func appendFilterClauses(where string, args []interface{}, filter domain.ReportFilter, includeDateFrom bool) (string, []interface{}) {
	if includeDateFrom && filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += ` AND e.entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += ` AND e.entry_date <= $` + strconv.Itoa(len(args))
	}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		where += ` AND l.branch_id = $` + strconv.Itoa(len(args))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		where += ` AND l.project_id = $` + strconv.Itoa(len(args))
	}
	if filter.CostCenterID != nil {
		args = append(args, *filter.CostCenterID)
		where += ` AND l.cost_center_id = $` + strconv.Itoa(len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where += ` AND l.customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.VendorID != nil {
		args = append(args, *filter.VendorID)
		where += ` AND l.vendor_id = $` + strconv.Itoa(len(args))
	}
	return where, args
}

// GetTrialBalanceData sums approved debit/credit base amounts per account
// under the filter.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error) {
	where := `WHERE e.company_id = $1 AND e.status = $2`
	args := []interface{}{companyID, domain.StatusApproved}
	where, args = appendFilterClauses(where, args, filter, true)

	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_base), 0) AS debit,
		       COALESCE(SUM(l.credit_base), 0) AS credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		` + where + `
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance for company "+companyID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		row.Balance = row.Debit.Sub(row.Credit)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}

	return result, nil
}

// GetProfitAndLossData returns income and expense net amounts under the
// filter. Each amount is taken on the account's normal side, so a profitable
// income account and a spending expense account both come back positive.
func (r *PgxReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	where := `WHERE e.company_id = $1 AND e.status = $2 AND a.account_type IN ('INCOME', 'EXPENSE')`
	args := []interface{}{companyID, domain.StatusApproved}
	where, args = appendFilterClauses(where, args, filter, true)

	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(CASE WHEN a.account_type = 'EXPENSE'
		                         THEN l.debit_base - l.credit_base
		                         ELSE l.credit_base - l.debit_base END), 0) AS net
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		` + where + `
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query profit and loss for company "+companyID, err)
	}
	defer rows.Close()

	income := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	for rows.Next() {
		var amount domain.AccountAmount
		var accountType domain.AccountType
		if err := rows.Scan(&amount.AccountID, &amount.AccountCode, &amount.Name, &accountType, &amount.NetAmount); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan profit and loss row", err)
		}
		if accountType == domain.Income {
			income = append(income, amount)
		} else {
			expenses = append(expenses, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating profit and loss rows", err)
	}

	return income, expenses, nil
}

// GetBalanceSheetData returns asset/liability/equity net amounts cumulatively
// up to filter.DateTo, opening balances included. Accounts without any
// approved movement still appear when their opening balance is non-zero.
func (r *PgxReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	// The balance sheet is cumulative from inception, so DateFrom never
	// applies here.
	where := `WHERE e.company_id = $1 AND e.status = $2`
	args := []interface{}{companyID, domain.StatusApproved}
	where, args = appendFilterClauses(where, args, filter, false)

	args = append(args, companyID)
	companyArg := strconv.Itoa(len(args))

	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       a.opening_balance + COALESCE(m.net, 0) AS net
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id,
			       SUM(CASE WHEN a2.account_type = 'ASSET'
			                THEN l.debit_base - l.credit_base
			                ELSE l.credit_base - l.debit_base END) AS net
			FROM journal_lines l
			JOIN journal_entries e ON l.entry_id = e.entry_id
			JOIN accounts a2 ON l.account_id = a2.account_id
			` + where + `
			GROUP BY l.account_id
		) m ON m.account_id = a.account_id
		WHERE a.company_id = $` + companyArg + `
		  AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		  AND (a.opening_balance != 0 OR m.net IS NOT NULL)
		ORDER BY a.code;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, nil, apperrors.NewAppError(500, "failed to query balance sheet for company "+companyID, err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}
	for rows.Next() {
		var amount domain.AccountAmount
		var accountType domain.AccountType
		if err := rows.Scan(&amount.AccountID, &amount.AccountCode, &amount.Name, &accountType, &amount.NetAmount); err != nil {
			return nil, nil, nil, apperrors.NewAppError(500, "failed to scan balance sheet row", err)
		}
		switch accountType {
		case domain.Asset:
			assets = append(assets, amount)
		case domain.Liability:
			liabilities = append(liabilities, amount)
		default:
			equity = append(equity, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, apperrors.NewAppError(500, "error iterating balance sheet rows", err)
	}

	return assets, liabilities, equity, nil
}

// GetAgingData buckets open counterparty balances by due-date distance from asOf.
func (r *PgxReportingRepository) GetAgingData(ctx context.Context, companyID string, side domain.AgingSide, asOf time.Time) ([]domain.AgingRow, error) {
	partyColumn := `l.customer_id`
	partyTable := `customers`
	partyKey := `customer_id`
	amountExpr := `l.debit_base - l.credit_base`
	if side == domain.AgingPayable {
		partyColumn = `l.vendor_id`
		partyTable = `vendors`
		partyKey = `vendor_id`
		amountExpr = `l.credit_base - l.debit_base`
	}

	// Lines without a due date cannot be aged; reconciled lines are settled.
	query := `
		SELECT p.` + partyKey + `, p.name,
		       COALESCE(SUM(CASE WHEN l.due_date >= $3 THEN ` + amountExpr + ` ELSE 0 END), 0) AS bucket_current,
		       COALESCE(SUM(CASE WHEN l.due_date < $3 AND l.due_date >= $3 - INTERVAL '30 days' THEN ` + amountExpr + ` ELSE 0 END), 0) AS bucket_30,
		       COALESCE(SUM(CASE WHEN l.due_date < $3 - INTERVAL '30 days' AND l.due_date >= $3 - INTERVAL '60 days' THEN ` + amountExpr + ` ELSE 0 END), 0) AS bucket_60,
		       COALESCE(SUM(CASE WHEN l.due_date < $3 - INTERVAL '60 days' AND l.due_date >= $3 - INTERVAL '90 days' THEN ` + amountExpr + ` ELSE 0 END), 0) AS bucket_90,
		       COALESCE(SUM(CASE WHEN l.due_date < $3 - INTERVAL '90 days' THEN ` + amountExpr + ` ELSE 0 END), 0) AS bucket_90_plus
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN ` + partyTable + ` p ON ` + partyColumn + ` = p.` + partyKey + `
		WHERE e.company_id = $1 AND e.status = $2
		  AND ` + partyColumn + ` IS NOT NULL
		  AND l.due_date IS NOT NULL
		  AND l.reconciled = FALSE
		GROUP BY p.` + partyKey + `, p.name
		ORDER BY p.name;
	`

	rows, err := r.pool.Query(ctx, query, companyID, domain.StatusApproved, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query aging data for company "+companyID, err)
	}
	defer rows.Close()

	result := []domain.AgingRow{}
	for rows.Next() {
		var row domain.AgingRow
		if err := rows.Scan(&row.PartyID, &row.PartyName, &row.Current, &row.Days30, &row.Days60, &row.Days90, &row.Days90Plus); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan aging row", err)
		}
		row.Total = row.Current.Add(row.Days30).Add(row.Days60).Add(row.Days90).Add(row.Days90Plus)
		if row.Total.IsZero() {
			continue
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating aging rows", err)
	}

	return result, nil
}

// ListLedgerRows retrieves a token-paginated chronological line listing for
// one account, or all accounts when accountID is nil.
func (r *PgxReportingRepository) ListLedgerRows(ctx context.Context, companyID string, accountID *string, filter domain.ReportFilter, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	where := `WHERE e.company_id = $1 AND e.status = $2`
	args := []interface{}{companyID, domain.StatusApproved}

	if accountID != nil {
		args = append(args, *accountID)
		where += ` AND l.account_id = $` + strconv.Itoa(len(args))
	}
	where, args = appendFilterClauses(where, args, filter, true)

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		where += ` AND (e.entry_date, l.created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := `
		SELECT e.entry_id, e.entry_number, e.entry_date, e.description,
		       l.account_id, a.name, l.debit_base, l.credit_base,
		       l.branch_id, l.project_id, l.cost_center_id, l.customer_id, l.vendor_id,
		       l.created_at
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		` + where + `
		ORDER BY e.entry_date DESC, l.created_at DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger rows for company "+companyID, err)
	}
	defer rows.Close()

	type cursorRow struct {
		row       domain.LedgerRow
		createdAt time.Time
	}

	fetched := make([]cursorRow, 0, fetchLimit)
	for rows.Next() {
		var cr cursorRow
		if err := rows.Scan(
			&cr.row.EntryID,
			&cr.row.EntryNumber,
			&cr.row.EntryDate,
			&cr.row.Description,
			&cr.row.AccountID,
			&cr.row.AccountName,
			&cr.row.DebitBase,
			&cr.row.CreditBase,
			&cr.row.BranchID,
			&cr.row.ProjectID,
			&cr.row.CostCenterID,
			&cr.row.CustomerID,
			&cr.row.VendorID,
			&cr.createdAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		fetched = append(fetched, cr)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}

	var nextTokenVal *string
	if len(fetched) > limit {
		last := fetched[limit-1]
		token := pagination.EncodeToken(last.row.EntryDate, last.createdAt)
		nextTokenVal = &token
		fetched = fetched[:limit]
	}

	result := make([]domain.LedgerRow, len(fetched))
	for i, cr := range fetched {
		result[i] = cr.row
	}

	return result, nextTokenVal, nil
}
