package services

import (
	"fmt"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// transitionRule ties one action to its allowed source states, its target
// state, and the roles that may request it.
type transitionRule struct {
	from  []domain.EntryStatus
	to    domain.EntryStatus
	roles []domain.CompanyRole
}

// transitionRules is the single capability table every document transition is
// evaluated against. Journal entries and invoices share it.
var transitionRules = map[domain.EntryAction]transitionRule{
	domain.ActionSubmit: {
		from:  []domain.EntryStatus{domain.StatusDraft, domain.StatusRejected},
		to:    domain.StatusPendingVerification,
		roles: []domain.CompanyRole{domain.RoleAccountant, domain.RoleOwner, domain.RoleAdmin},
	},
	domain.ActionVerify: {
		from:  []domain.EntryStatus{domain.StatusPendingVerification},
		to:    domain.StatusVerified,
		roles: []domain.CompanyRole{domain.RoleManager, domain.RoleOwner, domain.RoleAdmin},
	},
	domain.ActionReject: {
		from:  []domain.EntryStatus{domain.StatusPendingVerification, domain.StatusVerified, domain.StatusPendingApproval},
		to:    domain.StatusRejected,
		roles: []domain.CompanyRole{domain.RoleManager, domain.RoleOwner, domain.RoleAdmin},
	},
	domain.ActionRetrieve: {
		from:  []domain.EntryStatus{domain.StatusRejected},
		to:    domain.StatusDraft,
		roles: []domain.CompanyRole{domain.RoleAccountant, domain.RoleOwner},
	},
	domain.ActionApprove: {
		from:  []domain.EntryStatus{domain.StatusVerified, domain.StatusPendingApproval},
		to:    domain.StatusApproved,
		roles: []domain.CompanyRole{domain.RoleOwner, domain.RoleAdmin},
	},
}

// NextStatus validates the requested transition against the capability table
// and returns the target status. A transition from a non-listed source state
// or by an actor lacking the required role fails with a forbidden error and
// must perform no mutation. Approving an already-approved document lands
// here too: APPROVED is not a listed source for any action.
func NextStatus(current domain.EntryStatus, action domain.EntryAction, actor domain.Identity) (domain.EntryStatus, error) {
	rule, ok := transitionRules[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", apperrors.ErrForbidden, action)
	}

	fromAllowed := false
	for _, s := range rule.from {
		if s == current {
			fromAllowed = true
			break
		}
	}
	if !fromAllowed {
		return "", fmt.Errorf("%w: cannot %s a document in status %s", apperrors.ErrForbidden, action, current)
	}

	if !actor.HasRole(rule.roles...) {
		return "", fmt.Errorf("%w: role does not permit %s", apperrors.ErrForbidden, action)
	}

	return rule.to, nil
}

// AuthorizeEdit reports whether the actor may edit or delete a document in
// the given status. Only DRAFT and REJECTED documents are editable at all;
// Owners and Admins may always edit those, Accountants too, Managers never.
func AuthorizeEdit(status domain.EntryStatus, actor domain.Identity) error {
	if !status.Editable() {
		return fmt.Errorf("%w: documents in status %s cannot be modified", apperrors.ErrForbidden, status)
	}
	if !actor.HasRole(domain.RoleAccountant, domain.RoleOwner, domain.RoleAdmin) {
		return fmt.Errorf("%w: role does not permit editing", apperrors.ErrForbidden)
	}
	return nil
}

// InitialStatus returns the status a newly created document starts in.
// Accountant/Owner/Admin creations skip DRAFT and land directly in
// PENDING_VERIFICATION so verifiers see them immediately.
func InitialStatus(actor domain.Identity) domain.EntryStatus {
	if actor.HasRole(domain.RoleAccountant, domain.RoleOwner, domain.RoleAdmin) {
		return domain.StatusPendingVerification
	}
	return domain.StatusDraft
}
