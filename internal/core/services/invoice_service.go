package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/accounting"
)

// invoiceService provides invoice operations. Invoices run through the same
// state machine as journal entries; approval additionally produces the
// bridging journal entry (receivable debit / revenue credit).
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepository
	notifier    portssvc.Notifier
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, partyRepo portsrepo.PartyRepository, notifier portssvc.Notifier) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
		notifier:    notifier,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// buildInvoiceLines converts request lines into domain lines and returns the
// document-currency total.
func buildInvoiceLines(reqLines []dto.InvoiceLineRequest) ([]domain.InvoiceLine, decimal.Decimal, error) {
	lines := make([]domain.InvoiceLine, len(reqLines))
	total := decimal.Zero

	for i, rl := range reqLines {
		if !rl.Quantity.IsPositive() || !rl.UnitPrice.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("%w: invoice line quantity and unit price must be positive", apperrors.ErrValidation)
		}
		amount := rl.Quantity.Mul(rl.UnitPrice)
		lines[i] = domain.InvoiceLine{
			LineID:      uuid.NewString(),
			Description: rl.Description,
			Quantity:    rl.Quantity,
			UnitPrice:   rl.UnitPrice,
			Amount:      amount,
		}
		total = total.Add(amount)
	}

	return lines, total, nil
}

// checkPostingAccounts validates the two posting accounts of an invoice: the
// receivable target must be a debit-normal asset, the revenue target an
// income account, both active and in the company.
func (s *invoiceService) checkPostingAccounts(ctx context.Context, companyID, receivableID, revenueID string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{receivableID, revenueID})
	if err != nil {
		return nil, err
	}

	receivable, ok := accounts[receivableID]
	if !ok || !receivable.IsActive || receivable.CompanyID != companyID {
		return nil, fmt.Errorf("%w: receivable account %s is missing or unusable", apperrors.ErrValidation, receivableID)
	}
	if receivable.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: receivable account %s must be an asset account", apperrors.ErrValidation, receivableID)
	}

	revenue, ok := accounts[revenueID]
	if !ok || !revenue.IsActive || revenue.CompanyID != companyID {
		return nil, fmt.Errorf("%w: revenue account %s is missing or unusable", apperrors.ErrValidation, revenueID)
	}
	if revenue.AccountType != domain.Income {
		return nil, fmt.Errorf("%w: revenue account %s must be an income account", apperrors.ErrValidation, revenueID)
	}

	return accounts, nil
}

// CreateInvoice validates the invoice, computes totals in both currencies,
// and persists it in its initial status. The invoice number is assigned
// inside the repository transaction.
func (s *invoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, actor domain.Identity) (*domain.Invoice, error) {
	now := time.Now().UTC()

	if req.InvoiceDate.After(now) && !actor.MayBackdateFreely() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrFutureDated.Error())
	}
	if req.DueDate.Before(req.InvoiceDate) {
		return nil, fmt.Errorf("%w: due date must not precede the invoice date", apperrors.ErrValidation)
	}

	customer, err := s.partyRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrValidation, req.CustomerID)
	}
	if customer.CompanyID != companyID || !customer.IsActive {
		return nil, fmt.Errorf("%w: customer %s is missing or inactive", apperrors.ErrValidation, req.CustomerID)
	}

	if _, err := s.checkPostingAccounts(ctx, companyID, req.ReceivableAccountID, req.RevenueAccountID); err != nil {
		return nil, err
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		exchangeRate = *req.ExchangeRate
	}
	if !exchangeRate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	lines, total, err := buildInvoiceLines(req.Lines)
	if err != nil {
		return nil, err
	}

	invoice := domain.Invoice{
		InvoiceID:           uuid.NewString(),
		CompanyID:           companyID,
		CustomerID:          req.CustomerID,
		InvoiceDate:         req.InvoiceDate,
		DueDate:             req.DueDate,
		Status:              InitialStatus(actor),
		CurrencyCode:        req.CurrencyCode,
		ExchangeRate:        exchangeRate,
		Total:               total,
		TotalBase:           total.Mul(exchangeRate),
		ReceivableAccountID: req.ReceivableAccountID,
		RevenueAccountID:    req.RevenueAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	created, err := s.invoiceRepo.CreateInvoice(ctx, invoice, lines)
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("company_id", companyID))
		return nil, err
	}
	created.Lines = lines

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", created.InvoiceID),
		slog.String("invoice_number", created.InvoiceNumber),
		slog.String("status", string(created.Status)))

	if created.Status == domain.StatusPendingVerification && s.notifier != nil {
		s.notifier.Notify(ctx, companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
			"Invoice awaiting verification",
			fmt.Sprintf("Invoice %s was submitted for verification", created.InvoiceNumber),
			"invoice", created.InvoiceID)
	}

	return created, nil
}

// Transition performs one state machine action on an invoice. The approve
// action produces the bridging journal entry atomically with the status flip
// and the balance deltas.
func (s *invoiceService) Transition(ctx context.Context, companyID, invoiceID string, req dto.TransitionRequest, actor domain.Identity) (*domain.Invoice, error) {
	invoice, err := s.findCompanyInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	action := req.Action
	next, err := NextStatus(invoice.Status, action, actor)
	if err != nil {
		return nil, err
	}

	if action == domain.ActionReject && (req.Reason == nil || strings.TrimSpace(*req.Reason) == "") {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrReasonRequired.Error())
	}

	now := time.Now().UTC()

	if action == domain.ActionApprove {
		override := req.OverrideOverdraft && actor.MayOverrideOverdraft()
		if err := s.approve(ctx, invoice, actor, override, now); err != nil {
			return nil, err
		}
	} else {
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, invoice.Status, next, action, actor.UserID, req.Reason, now); err != nil {
			s.LogError(ctx, err, "Failed to transition invoice",
				slog.String("invoice_id", invoiceID), slog.String("action", string(action)))
			return nil, err
		}
	}

	if next == domain.StatusPendingVerification && s.notifier != nil {
		s.notifier.Notify(ctx, companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
			"Invoice awaiting verification",
			fmt.Sprintf("Invoice %s was submitted for verification", invoice.InvoiceNumber),
			"invoice", invoice.InvoiceID)
	}

	s.LogInfo(ctx, "Invoice transitioned",
		slog.String("invoice_id", invoiceID),
		slog.String("action", string(action)),
		slog.String("to_status", string(next)))

	return s.GetInvoiceByID(ctx, companyID, invoiceID, actor)
}

// approve builds the bridging journal entry for the invoice and hands the
// whole terminal transition to the repository as one atomic unit.
func (s *invoiceService) approve(ctx context.Context, invoice *domain.Invoice, actor domain.Identity, override bool, now time.Time) error {
	accounts, err := s.checkPostingAccounts(ctx, invoice.CompanyID, invoice.ReceivableAccountID, invoice.RevenueAccountID)
	if err != nil {
		return err
	}

	actorID := actor.UserID
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       invoice.CompanyID,
		EntryDate:       invoice.InvoiceDate,
		Description:     fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
		Status:          domain.StatusApproved,
		CurrencyCode:    invoice.CurrencyCode,
		ExchangeRate:    invoice.ExchangeRate,
		TotalDebit:      invoice.Total,
		TotalCredit:     invoice.Total,
		TotalDebitBase:  invoice.TotalBase,
		TotalCreditBase: invoice.TotalBase,
		ApprovedBy:      &actorID,
		SourceInvoiceID: &invoice.InvoiceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	audit := domain.AuditFields{CreatedAt: now, CreatedBy: actorID, LastUpdatedAt: now, LastUpdatedBy: actorID}
	lines := []domain.JournalLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   invoice.ReceivableAccountID,
			Debit:       invoice.Total,
			CustomerID:  &invoice.CustomerID,
			DueDate:     &invoice.DueDate,
			AuditFields: audit,
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   invoice.RevenueAccountID,
			Credit:      invoice.Total,
			CustomerID:  &invoice.CustomerID,
			AuditFields: audit,
		},
	}
	for i := range lines {
		if err := accounting.NormalizeLine(&lines[i], invoice.ExchangeRate); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		accountTypes[id] = account.AccountType
	}
	balanceChanges, err := accounting.SumBalanceChanges(lines, accountTypes)
	if err != nil {
		return apperrors.NewAppError(500, "failed to compute balance changes for invoice "+invoice.InvoiceID, err)
	}

	if _, err := s.invoiceRepo.ApproveInvoice(ctx, *invoice, entry, lines, balanceChanges, override, actorID, now); err != nil {
		s.LogError(ctx, err, "Failed to approve invoice", slog.String("invoice_id", invoice.InvoiceID))
		return err
	}
	return nil
}

// findCompanyInvoice fetches an invoice and hides invoices of other
// companies behind a not-found error.
func (s *invoiceService) findCompanyInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return invoice, nil
}

// GetInvoiceByID retrieves an invoice with its lines.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, companyID, invoiceID string, actor domain.Identity) (*domain.Invoice, error) {
	invoice, err := s.findCompanyInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	lines, err := s.invoiceRepo.FindInvoiceLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines

	return invoice, nil
}

// ListInvoices retrieves a token-paginated invoice listing.
func (s *invoiceService) ListInvoices(ctx context.Context, companyID string, actor domain.Identity, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	invoices, nextToken, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListInvoicesResponse{
		Invoices:  make([]dto.InvoiceResponse, len(invoices)),
		NextToken: nextToken,
	}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	return resp, nil
}

// UpdateInvoice replaces header fields and lines of an invoice still in an
// editable status.
func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, actor domain.Identity) (*domain.Invoice, error) {
	invoice, err := s.findCompanyInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeEdit(invoice.Status, actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if req.CustomerID != nil {
		customer, err := s.partyRepo.FindCustomerByID(ctx, *req.CustomerID)
		if err != nil || customer.CompanyID != companyID || !customer.IsActive {
			return nil, fmt.Errorf("%w: customer %s is missing or inactive", apperrors.ErrValidation, *req.CustomerID)
		}
		invoice.CustomerID = *req.CustomerID
	}
	if req.InvoiceDate != nil {
		if req.InvoiceDate.After(now) && !actor.MayBackdateFreely() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrFutureDated.Error())
		}
		invoice.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if invoice.DueDate.Before(invoice.InvoiceDate) {
		return nil, fmt.Errorf("%w: due date must not precede the invoice date", apperrors.ErrValidation)
	}

	var lines []domain.InvoiceLine
	if req.Lines != nil {
		var total decimal.Decimal
		lines, total, err = buildInvoiceLines(req.Lines)
		if err != nil {
			return nil, err
		}
		invoice.Total = total
		invoice.TotalBase = total.Mul(invoice.ExchangeRate)
	} else {
		lines, err = s.invoiceRepo.FindInvoiceLines(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
	}

	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actor.UserID

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice, lines); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	invoice.Lines = lines
	return invoice, nil
}

// DeleteInvoice removes an invoice still in an editable status.
func (s *invoiceService) DeleteInvoice(ctx context.Context, companyID, invoiceID string, actor domain.Identity) error {
	invoice, err := s.findCompanyInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}

	if err := AuthorizeEdit(invoice.Status, actor); err != nil {
		return err
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}
