package services

import (
	"context"
	"errors"
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

var (
	ErrFutureDated        = errors.New("future transaction dates are only allowed for owners")
	ErrReasonRequired     = errors.New("a rejection reason is required")
	ErrMinAccounts        = errors.New("entry must affect at least two different accounts")
	ErrAccountUnusable    = errors.New("account is missing or inactive")
	ErrMissingDesc        = errors.New("entry description is required")
	ErrAccountWrongTenant = errors.New("account belongs to a different company")
)

// journalService provides journal entry operations: creation, the shared
// document state machine, and editing of not-yet-approved entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	notifier    portssvc.Notifier
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, notifier portssvc.Notifier) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		notifier:    notifier,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into normalized domain lines and returns
// them together with the document-currency and base-currency totals.
func buildLines(reqLines []dto.CreateEntryLineRequest, exchangeRate decimal.Decimal, now time.Time, userID string) ([]domain.JournalLine, decimal.Decimal, decimal.Decimal, error) {
	lines := make([]domain.JournalLine, len(reqLines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, rl := range reqLines {
		line := domain.JournalLine{
			LineID:       uuid.NewString(),
			AccountID:    rl.AccountID,
			Debit:        rl.Debit,
			Credit:       rl.Credit,
			BranchID:     rl.BranchID,
			ProjectID:    rl.ProjectID,
			CostCenterID: rl.CostCenterID,
			CustomerID:   rl.CustomerID,
			VendorID:     rl.VendorID,
			DueDate:      rl.DueDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := accounting.NormalizeLine(&line, exchangeRate); err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		lines[i] = line
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	return lines, totalDebit, totalCredit, nil
}

// checkAccountsUsable verifies every referenced account exists, is active,
// belongs to the company, and that at least two distinct accounts are
// involved. It returns the account map for delta computation.
func (s *journalService) checkAccountsUsable(ctx context.Context, companyID string, lines []domain.JournalLine) (map[string]domain.Account, error) {
	idSet := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !idSet[l.AccountID] {
			idSet[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMinAccounts.Error())
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		account, ok := accounts[id]
		if !ok || !account.IsActive {
			return nil, fmt.Errorf("%w: account %s: %s", apperrors.ErrValidation, id, ErrAccountUnusable.Error())
		}
		if account.CompanyID != companyID {
			return nil, fmt.Errorf("%w: account %s: %s", apperrors.ErrValidation, id, ErrAccountWrongTenant.Error())
		}
	}

	return accounts, nil
}

// CreateEntry validates balance and date, normalizes currency, and persists
// the entry in its initial status. The entry number is assigned inside the
// repository transaction.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actor domain.Identity) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)
	now := time.Now().UTC()

	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMissingDesc.Error())
	}

	if req.Date.After(now) && !actor.MayBackdateFreely() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrFutureDated.Error())
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		exchangeRate = *req.ExchangeRate
	}

	lines, totalDebit, totalCredit, err := buildLines(req.Lines, exchangeRate, now, actor.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkAccountsUsable(ctx, companyID, lines); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       companyID,
		EntryDate:       req.Date,
		Description:     req.Description,
		Status:          InitialStatus(actor),
		CurrencyCode:    req.CurrencyCode,
		ExchangeRate:    exchangeRate,
		TotalDebit:      totalDebit,
		TotalCredit:     totalCredit,
		TotalDebitBase:  totalDebit.Mul(exchangeRate),
		TotalCreditBase: totalCredit.Mul(exchangeRate),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	created, err := s.journalRepo.CreateEntry(ctx, entry, lines)
	if err != nil {
		s.LogError(ctx, err, "Failed to create journal entry", slog.String("company_id", companyID))
		return nil, err
	}
	created.Lines = lines

	logger.Info("Journal entry created",
		slog.String("entry_id", created.EntryID),
		slog.String("entry_number", created.EntryNumber),
		slog.String("status", string(created.Status)))

	if created.Status == domain.StatusPendingVerification && s.notifier != nil {
		s.notifier.Notify(ctx, companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
			"Journal entry awaiting verification",
			fmt.Sprintf("Entry %s (%s) was submitted for verification", created.EntryNumber, created.Description),
			"journal_entry", created.EntryID)
	}

	return created, nil
}

// Transition performs one state machine action on an entry. The approve
// action additionally propagates balances inside the repository transaction.
func (s *journalService) Transition(ctx context.Context, companyID, entryID string, req dto.TransitionRequest, actor domain.Identity) (*domain.JournalEntry, error) {
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	action := req.Action
	next, err := NextStatus(entry.Status, action, actor)
	if err != nil {
		return nil, err
	}

	if action == domain.ActionReject && (req.Reason == nil || strings.TrimSpace(*req.Reason) == "") {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrReasonRequired.Error())
	}

	now := time.Now().UTC()

	if action == domain.ActionApprove {
		override := req.OverrideOverdraft && actor.MayOverrideOverdraft()
		if err := s.approve(ctx, entry, actor, override, now); err != nil {
			return nil, err
		}
	} else {
		if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, entry.Status, next, action, actor.UserID, req.Reason, now); err != nil {
			s.LogError(ctx, err, "Failed to transition journal entry",
				slog.String("entry_id", entryID), slog.String("action", string(action)))
			return nil, err
		}
	}

	if next == domain.StatusPendingVerification && s.notifier != nil {
		s.notifier.Notify(ctx, companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
			"Journal entry awaiting verification",
			fmt.Sprintf("Entry %s (%s) was submitted for verification", entry.EntryNumber, entry.Description),
			"journal_entry", entry.EntryID)
	}

	s.LogInfo(ctx, "Journal entry transitioned",
		slog.String("entry_id", entryID),
		slog.String("action", string(action)),
		slog.String("to_status", string(next)))

	return s.GetEntryByID(ctx, companyID, entryID, actor)
}

// approve computes the per-account balance deltas of the entry and hands the
// whole terminal transition to the repository as one atomic unit.
func (s *journalService) approve(ctx context.Context, entry *domain.JournalEntry, actor domain.Identity, override bool, now time.Time) error {
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return err
	}

	accounts, err := s.checkAccountsUsable(ctx, entry.CompanyID, lines)
	if err != nil {
		return err
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		accountTypes[id] = account.AccountType
	}

	balanceChanges, err := accounting.SumBalanceChanges(lines, accountTypes)
	if err != nil {
		return apperrors.NewAppError(500, "failed to compute balance changes for entry "+entry.EntryID, err)
	}

	if err := s.journalRepo.ApproveEntry(ctx, *entry, balanceChanges, override, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to approve journal entry", slog.String("entry_id", entry.EntryID))
		return err
	}
	return nil
}

// findCompanyEntry fetches an entry and hides entries of other companies
// behind a not-found error.
func (s *journalService) findCompanyEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string, actor domain.Identity) (*domain.JournalEntry, error) {
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries retrieves a token-paginated entry listing.
func (s *journalService) ListEntries(ctx context.Context, companyID string, actor domain.Identity, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// UpdateEntry replaces header and lines of an entry still in an editable
// status. Approved entries are immutable and never reach the repository.
func (s *journalService) UpdateEntry(ctx context.Context, companyID, entryID string, req dto.UpdateEntryRequest, actor domain.Identity) (*domain.JournalEntry, error) {
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeEdit(entry.Status, actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if req.Date != nil {
		if req.Date.After(now) && !actor.MayBackdateFreely() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrFutureDated.Error())
		}
		entry.EntryDate = *req.Date
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMissingDesc.Error())
		}
		entry.Description = *req.Description
	}

	var lines []domain.JournalLine
	if req.Lines != nil {
		var totalDebit, totalCredit decimal.Decimal
		lines, totalDebit, totalCredit, err = buildLines(req.Lines, entry.ExchangeRate, now, actor.UserID)
		if err != nil {
			return nil, err
		}
		if _, err := s.checkAccountsUsable(ctx, companyID, lines); err != nil {
			return nil, err
		}
		entry.TotalDebit = totalDebit
		entry.TotalCredit = totalCredit
		entry.TotalDebitBase = totalDebit.Mul(entry.ExchangeRate)
		entry.TotalCreditBase = totalCredit.Mul(entry.ExchangeRate)
	} else {
		lines, err = s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, err
		}
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor.UserID

	if err := s.journalRepo.UpdateEntry(ctx, *entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Lines = lines
	return entry, nil
}

// DeleteEntry removes an entry still in an editable status.
func (s *journalService) DeleteEntry(ctx context.Context, companyID, entryID string, actor domain.Identity) error {
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}

	if err := AuthorizeEdit(entry.Status, actor); err != nil {
		return err
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}
