package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/docnum"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, company_id, entry_number, entry_date, description, status, currency_code, exchange_rate, total_debit, total_credit, total_debit_base, total_credit_base, verified_by, approved_by, rejected_by, rejection_reason, source_invoice_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, debit_base, credit_base, exchange_rate, branch_id, project_id, cost_center_id, customer_id, vendor_id, due_date, reconciled, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	numberRepo  portsrepo.DocumentNumberRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, numberRepo portsrepo.DocumentNumberRepository) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		numberRepo:     numberRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.CompanyID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Description,
		&e.Status,
		&e.CurrencyCode,
		&e.ExchangeRate,
		&e.TotalDebit,
		&e.TotalCredit,
		&e.TotalDebitBase,
		&e.TotalCreditBase,
		&e.VerifiedBy,
		&e.ApprovedBy,
		&e.RejectedBy,
		&e.RejectionReason,
		&e.SourceInvoiceID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func scanLine(row pgx.Row) (domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.AccountID,
		&l.Debit,
		&l.Credit,
		&l.DebitBase,
		&l.CreditBase,
		&l.ExchangeRate,
		&l.BranchID,
		&l.ProjectID,
		&l.CostCenterID,
		&l.CustomerID,
		&l.VendorID,
		&l.DueDate,
		&l.Reconciled,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

func queueLineInserts(batch *pgx.Batch, entryID string, lines []domain.JournalLine, userID string, now time.Time) {
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	for _, l := range lines {
		batch.Queue(query,
			l.LineID,
			entryID,
			l.AccountID,
			l.Debit,
			l.Credit,
			l.DebitBase,
			l.CreditBase,
			l.ExchangeRate,
			l.BranchID,
			l.ProjectID,
			l.CostCenterID,
			l.CustomerID,
			l.VendorID,
			l.DueDate,
			l.Reconciled,
			now,
			userID,
			now,
			userID,
		)
	}
}

func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.CompanyID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.Status,
		entry.CurrencyCode,
		entry.ExchangeRate,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.TotalDebitBase,
		entry.TotalCreditBase,
		entry.VerifiedBy,
		entry.ApprovedBy,
		entry.RejectedBy,
		entry.RejectionReason,
		entry.SourceInvoiceID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, entry.EntryID, lines, entry.CreatedBy, entry.CreatedAt)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// CreateEntry inserts an entry and its lines, drawing the entry number from
// the company's journal sequence inside the same transaction. A duplicate
// number collision rolls everything back and retries once with a fresh
// number before giving up with a conflict error.
func (r *PgxJournalRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	year := entry.EntryDate.Year()

	for attempt := 0; attempt < 2; attempt++ {
		tx, err := r.Begin(ctx)
		if err != nil {
			return nil, err
		}

		number, err := r.numberRepo.NextDocumentNumberInTx(ctx, tx, entry.CompanyID, docnum.DocTypeJournal, year)
		if err != nil {
			_ = r.Rollback(ctx, tx)
			return nil, apperrors.NewAppError(500, "failed to assign entry number", err)
		}
		entry.EntryNumber = number

		if err := insertEntryInTx(ctx, tx, entry, lines); err != nil {
			_ = r.Rollback(ctx, tx)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if attempt == 0 {
					continue
				}
				return nil, fmt.Errorf("%w: entry number %s already taken", apperrors.ErrConflict, number)
			}
			return nil, apperrors.NewAppError(500, "failed to insert entry "+entry.EntryID, err)
		}

		if err := r.Commit(ctx, tx); err != nil {
			return nil, err
		}
		return &entry, nil
	}

	return nil, apperrors.ErrConflict
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of one entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return lines, nil
}

// ListEntriesByCompany retrieves a token-paginated entry listing for a company,
// newest first, optionally restricted to one status.
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, *status)
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable for the cursor to work; created_at breaks
	// entry_date ties.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for company "+companyID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for company "+companyID, scanErr)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for company "+companyID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return entries, nextTokenVal, nil
}

// UpdateEntry replaces the header fields and lines of an editable entry.
// Lines are replaced wholesale; partial line edits are not supported.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    currency_code = $4,
		    exchange_rate = $5,
		    total_debit = $6,
		    total_credit = $7,
		    total_debit_base = $8,
		    total_credit_base = $9,
		    last_updated_at = $10,
		    last_updated_by = $11
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.CurrencyCode,
		entry.ExchangeRate,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.TotalDebitBase,
		entry.TotalCreditBase,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry "+entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entry.EntryID + " not found for update")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for entry "+entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, entry.EntryID, lines, entry.LastUpdatedBy, entry.LastUpdatedAt)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to rewrite lines for entry "+entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus records a non-approve transition. The by-field touched
// depends on the action: verify stamps verified_by, reject stamps rejected_by
// plus the reason, and retrieve clears both rejection fields. The update is a
// compare-and-swap on the status the caller validated against, so a
// transition racing a concurrent state change updates zero rows instead of
// clobbering the newer state.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, action domain.EntryAction, actorID string, reason *string, now time.Time) error {
	var query string
	args := []interface{}{entryID, to, now, actorID}

	switch action {
	case domain.ActionVerify:
		query = `
			UPDATE journal_entries
			SET status = $2, last_updated_at = $3, last_updated_by = $4, verified_by = $5
			WHERE entry_id = $1 AND status = $6;
		`
		args = append(args, actorID, from)
	case domain.ActionReject:
		query = `
			UPDATE journal_entries
			SET status = $2, last_updated_at = $3, last_updated_by = $4, rejected_by = $5, rejection_reason = $6
			WHERE entry_id = $1 AND status = $7;
		`
		args = append(args, actorID, reason, from)
	case domain.ActionRetrieve:
		query = `
			UPDATE journal_entries
			SET status = $2, last_updated_at = $3, last_updated_by = $4, rejected_by = NULL, rejection_reason = NULL
			WHERE entry_id = $1 AND status = $5;
		`
		args = append(args, from)
	default:
		query = `
			UPDATE journal_entries
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1 AND status = $5;
		`
		args = append(args, from)
	}

	cmdTag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrConflict, entryID, from)
	}
	return nil
}

// DeleteEntry removes an editable entry and its lines.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found for delete")
	}

	return r.Commit(ctx, tx)
}

// ApproveEntry performs the terminal approve transition in one transaction:
// lock the referenced accounts, enforce overdraft protection, apply the
// balance deltas, and flip the status. On any failure nothing is committed.
func (r *PgxJournalRepository) ApproveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool, actorID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for entry %s: %w", entry.EntryID, err)
	}

	if err := checkOverdraft(lockedAccounts, balanceChanges, overrideOverdraft); err != nil {
		return err
	}

	if err := r.accountRepo.IncrementBalancesInTx(ctx, tx, balanceChanges, actorID, now); err != nil {
		return fmt.Errorf("failed to apply balance changes for entry %s: %w", entry.EntryID, err)
	}

	statusQuery := `
		UPDATE journal_entries
		SET status = $2, approved_by = $3, last_updated_at = $4, last_updated_by = $3
		WHERE entry_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, statusQuery, entry.EntryID, domain.StatusApproved, actorID, now, entry.Status)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve entry "+entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The entry left the status the caller validated against, whether a
		// concurrent approval or a concurrent rejection. Rolling back keeps
		// the deltas from applying against the newer state.
		return fmt.Errorf("%w: entry %s was not in an approvable state", apperrors.ErrConflict, entry.EntryID)
	}

	return r.Commit(ctx, tx)
}

// checkOverdraft rejects any delta that would push a protected cash or bank
// account below zero, unless the caller carries an override.
func checkOverdraft(lockedAccounts map[string]domain.Account, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool) error {
	if overrideOverdraft {
		return nil
	}
	for accID, delta := range balanceChanges {
		account := lockedAccounts[accID]
		if !account.OverdraftProtected() {
			continue
		}
		projected := account.CurrentBalance.Add(delta)
		if projected.IsNegative() {
			return fmt.Errorf("%w: approving would overdraw account %s (%s) to %s", apperrors.ErrValidation, account.Code, account.Name, projected.StringFixed(2))
		}
	}
	return nil
}
