package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entries and their lines.
type EntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of one entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByCompany retrieves a token-paginated entry listing, newest
	// first, optionally restricted to one status.
	ListEntriesByCompany(ctx context.Context, companyID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entries.
type EntryWriter interface {
	// CreateEntry inserts an entry and its lines in one transaction, drawing
	// the entry number from the company's journal sequence inside that same
	// transaction. The returned entry carries the assigned number.
	CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (*domain.JournalEntry, error)

	// UpdateEntry replaces the header fields and lines of an editable entry.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatus records a non-approve transition: the new status, the
	// acting user for the relevant by-field, and the rejection reason (set on
	// reject, cleared on retrieve). The write only lands if the entry is
	// still in the from status the caller validated the transition against;
	// otherwise it fails with a conflict error.
	UpdateEntryStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, action domain.EntryAction, actorID string, reason *string, now time.Time) error

	// DeleteEntry removes an editable entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// ApproveEntry performs the terminal approve transition atomically: it
	// locks the referenced accounts, enforces overdraft protection unless
	// overrideOverdraft is set, applies the balance deltas, and flips the
	// status to APPROVED. The flip asserts the entry still holds the status
	// carried on entry; a concurrent state change fails the whole
	// transaction with a conflict error and nothing is committed.
	ApproveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool, actorID string, now time.Time) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}
