package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// JournalSvcFacade is the journal-entry surface exposed to the API layer.
// The actor identity is resolved by the auth boundary before any call.
type JournalSvcFacade interface {
	// CreateEntry validates balance and date, assigns the entry number,
	// normalizes currency, and persists the entry in its initial status.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actor domain.Identity) (*domain.JournalEntry, error)

	// Transition performs one of submit/verify/reject/retrieve/approve,
	// role-gated per the capability table. The approve transition also
	// propagates balances atomically.
	Transition(ctx context.Context, companyID, entryID string, req dto.TransitionRequest, actor domain.Identity) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, companyID, entryID string, actor domain.Identity) (*domain.JournalEntry, error)

	// ListEntries retrieves a token-paginated entry listing.
	ListEntries(ctx context.Context, companyID string, actor domain.Identity, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// UpdateEntry replaces header and lines of an entry still in an editable
	// status (DRAFT/REJECTED).
	UpdateEntry(ctx context.Context, companyID, entryID string, req dto.UpdateEntryRequest, actor domain.Identity) (*domain.JournalEntry, error)

	// DeleteEntry removes an entry still in an editable status.
	DeleteEntry(ctx context.Context, companyID, entryID string, actor domain.Identity) error
}
