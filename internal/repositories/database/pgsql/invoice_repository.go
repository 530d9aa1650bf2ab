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

const invoiceColumns = `invoice_id, company_id, invoice_number, customer_id, invoice_date, due_date, status, currency_code, exchange_rate, total, total_base, receivable_account_id, revenue_account_id, journal_entry_id, verified_by, approved_by, rejected_by, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`

const invoiceLineColumns = `line_id, invoice_id, description, quantity, unit_price, amount`

type PgxInvoiceRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	numberRepo  portsrepo.DocumentNumberRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, numberRepo portsrepo.DocumentNumberRepository) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		numberRepo:     numberRepo,
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.CompanyID,
		&inv.InvoiceNumber,
		&inv.CustomerID,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.Status,
		&inv.CurrencyCode,
		&inv.ExchangeRate,
		&inv.Total,
		&inv.TotalBase,
		&inv.ReceivableAccountID,
		&inv.RevenueAccountID,
		&inv.JournalEntryID,
		&inv.VerifiedBy,
		&inv.ApprovedBy,
		&inv.RejectedBy,
		&inv.RejectionReason,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

func queueInvoiceLineInserts(batch *pgx.Batch, invoiceID string, lines []domain.InvoiceLine) {
	query := `
		INSERT INTO invoice_lines (` + invoiceLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, l := range lines {
		batch.Queue(query, l.LineID, invoiceID, l.Description, l.Quantity, l.UnitPrice, l.Amount)
	}
}

func insertInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, lines []domain.InvoiceLine) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.CompanyID,
		invoice.InvoiceNumber,
		invoice.CustomerID,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Status,
		invoice.CurrencyCode,
		invoice.ExchangeRate,
		invoice.Total,
		invoice.TotalBase,
		invoice.ReceivableAccountID,
		invoice.RevenueAccountID,
		invoice.JournalEntryID,
		invoice.VerifiedBy,
		invoice.ApprovedBy,
		invoice.RejectedBy,
		invoice.RejectionReason,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	queueInvoiceLineInserts(batch, invoice.InvoiceID, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

// CreateInvoice inserts an invoice and its lines, drawing the invoice number
// from the company's invoice sequence inside the same transaction.
func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) (*domain.Invoice, error) {
	year := invoice.InvoiceDate.Year()

	for attempt := 0; attempt < 2; attempt++ {
		tx, err := r.Begin(ctx)
		if err != nil {
			return nil, err
		}

		number, err := r.numberRepo.NextDocumentNumberInTx(ctx, tx, invoice.CompanyID, docnum.DocTypeInvoice, year)
		if err != nil {
			_ = r.Rollback(ctx, tx)
			return nil, apperrors.NewAppError(500, "failed to assign invoice number", err)
		}
		invoice.InvoiceNumber = number

		if err := insertInvoiceInTx(ctx, tx, invoice, lines); err != nil {
			_ = r.Rollback(ctx, tx)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if attempt == 0 {
					continue
				}
				return nil, fmt.Errorf("%w: invoice number %s already taken", apperrors.ErrConflict, number)
			}
			return nil, apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
		}

		if err := r.Commit(ctx, tx); err != nil {
			return nil, err
		}
		return &invoice, nil
	}

	return nil, apperrors.ErrConflict
}

// FindInvoiceByID retrieves an invoice header by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice by ID "+invoiceID, err)
	}
	return &invoice, nil
}

// FindInvoiceLines retrieves all lines of one invoice.
func (r *PgxInvoiceRepository) FindInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `SELECT ` + invoiceLineColumns + ` FROM invoice_lines WHERE invoice_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for invoice "+invoiceID, err)
	}
	defer rows.Close()

	lines := []domain.InvoiceLine{}
	for rows.Next() {
		var l domain.InvoiceLine
		if err := rows.Scan(&l.LineID, &l.InvoiceID, &l.Description, &l.Quantity, &l.UnitPrice, &l.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for invoice "+invoiceID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for invoice "+invoiceID, err)
	}

	return lines, nil
}

// ListInvoicesByCompany retrieves a token-paginated invoice listing for a
// company, newest first, optionally restricted to one status.
func (r *PgxInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, *status)
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY invoice_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (invoice_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices for company "+companyID, err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, fetchLimit)
	for rows.Next() {
		invoice, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row for company "+companyID, scanErr)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows for company "+companyID, err)
	}

	var nextTokenVal *string
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		nextTokenVal = &token
		invoices = invoices[:limit]
	}

	return invoices, nextTokenVal, nil
}

// FindOverdueInvoices retrieves approved invoices whose due date lies before asOf.
func (r *PgxInvoiceRepository) FindOverdueInvoices(ctx context.Context, companyID string, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND status = $2 AND due_date < $3
		ORDER BY due_date;
	`

	rows, err := r.Pool.Query(ctx, query, companyID, domain.StatusApproved, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query overdue invoices for company "+companyID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		invoice, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan overdue invoice row", scanErr)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating overdue invoice rows", err)
	}

	return invoices, nil
}

// UpdateInvoice replaces the header fields and lines of an editable invoice.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE invoices
		SET customer_id = $2,
		    invoice_date = $3,
		    due_date = $4,
		    total = $5,
		    total_base = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		invoice.InvoiceID,
		invoice.CustomerID,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Total,
		invoice.TotalBase,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoice.InvoiceID + " not found for update")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for invoice "+invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	queueInvoiceLineInserts(batch, invoice.InvoiceID, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to rewrite lines for invoice "+invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus records a non-approve transition, mirroring the journal
// entry status update. Like that update it is a compare-and-swap on the
// status the caller validated against.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, from, to domain.EntryStatus, action domain.EntryAction, actorID string, reason *string, now time.Time) error {
	var query string
	args := []interface{}{invoiceID, to, now, actorID}

	switch action {
	case domain.ActionVerify:
		query = `
			UPDATE invoices
			SET status = $2, last_updated_at = $3, last_updated_by = $4, verified_by = $5
			WHERE invoice_id = $1 AND status = $6;
		`
		args = append(args, actorID, from)
	case domain.ActionReject:
		query = `
			UPDATE invoices
			SET status = $2, last_updated_at = $3, last_updated_by = $4, rejected_by = $5, rejection_reason = $6
			WHERE invoice_id = $1 AND status = $7;
		`
		args = append(args, actorID, reason, from)
	case domain.ActionRetrieve:
		query = `
			UPDATE invoices
			SET status = $2, last_updated_at = $3, last_updated_by = $4, rejected_by = NULL, rejection_reason = NULL
			WHERE invoice_id = $1 AND status = $5;
		`
		args = append(args, from)
	default:
		query = `
			UPDATE invoices
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE invoice_id = $1 AND status = $5;
		`
		args = append(args, from)
	}

	cmdTag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s is no longer %s", apperrors.ErrConflict, invoiceID, from)
	}
	return nil
}

// DeleteInvoice removes an editable invoice and its lines.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for invoice "+invoiceID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoiceID + " not found for delete")
	}

	return r.Commit(ctx, tx)
}

// ApproveInvoice atomically flips the invoice to APPROVED, inserts the
// bridging journal entry with its lines, links the two, and applies the
// balance deltas under the same locking and overdraft rules as a journal
// approval. The bridging entry draws its own journal number inside the same
// transaction.
func (r *PgxInvoiceRepository) ApproveInvoice(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool, actorID string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := checkOverdraft(lockedAccounts, balanceChanges, overrideOverdraft); err != nil {
		return nil, err
	}

	number, err := r.numberRepo.NextDocumentNumberInTx(ctx, tx, invoice.CompanyID, docnum.DocTypeJournal, entry.EntryDate.Year())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to assign bridging entry number", err)
	}
	entry.EntryNumber = number

	if err := insertEntryInTx(ctx, tx, entry, lines); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert bridging entry for invoice "+invoice.InvoiceID, err)
	}

	if err := r.accountRepo.IncrementBalancesInTx(ctx, tx, balanceChanges, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to apply balance changes for invoice %s: %w", invoice.InvoiceID, err)
	}

	statusQuery := `
		UPDATE invoices
		SET status = $2, approved_by = $3, journal_entry_id = $4, last_updated_at = $5, last_updated_by = $3
		WHERE invoice_id = $1 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, statusQuery, invoice.InvoiceID, domain.StatusApproved, actorID, entry.EntryID, now, invoice.Status)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to approve invoice "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: invoice %s was not in an approvable state", apperrors.ErrConflict, invoice.InvoiceID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}
