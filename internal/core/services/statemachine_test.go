package services

import (
	"errors"
	"testing"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityWith(roles ...domain.CompanyRole) domain.Identity {
	return domain.Identity{UserID: "user-1", Roles: roles}
}

func TestNextStatus_AllowedTransitions(t *testing.T) {
	testCases := []struct {
		name   string
		from   domain.EntryStatus
		action domain.EntryAction
		actor  domain.Identity
		want   domain.EntryStatus
	}{
		{"accountant submits draft", domain.StatusDraft, domain.ActionSubmit, identityWith(domain.RoleAccountant), domain.StatusPendingVerification},
		{"owner submits rejected", domain.StatusRejected, domain.ActionSubmit, identityWith(domain.RoleOwner), domain.StatusPendingVerification},
		{"manager verifies", domain.StatusPendingVerification, domain.ActionVerify, identityWith(domain.RoleManager), domain.StatusVerified},
		{"admin verifies", domain.StatusPendingVerification, domain.ActionVerify, identityWith(domain.RoleAdmin), domain.StatusVerified},
		{"manager rejects pending verification", domain.StatusPendingVerification, domain.ActionReject, identityWith(domain.RoleManager), domain.StatusRejected},
		{"owner rejects verified", domain.StatusVerified, domain.ActionReject, identityWith(domain.RoleOwner), domain.StatusRejected},
		{"admin rejects pending approval", domain.StatusPendingApproval, domain.ActionReject, identityWith(domain.RoleAdmin), domain.StatusRejected},
		{"accountant retrieves rejected", domain.StatusRejected, domain.ActionRetrieve, identityWith(domain.RoleAccountant), domain.StatusDraft},
		{"owner retrieves rejected", domain.StatusRejected, domain.ActionRetrieve, identityWith(domain.RoleOwner), domain.StatusDraft},
		{"owner approves verified", domain.StatusVerified, domain.ActionApprove, identityWith(domain.RoleOwner), domain.StatusApproved},
		{"admin approves pending approval", domain.StatusPendingApproval, domain.ActionApprove, identityWith(domain.RoleAdmin), domain.StatusApproved},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextStatus(tc.from, tc.action, tc.actor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStatus_ForbiddenTransitions(t *testing.T) {
	testCases := []struct {
		name   string
		from   domain.EntryStatus
		action domain.EntryAction
		actor  domain.Identity
	}{
		{"manager may not submit", domain.StatusDraft, domain.ActionSubmit, identityWith(domain.RoleManager)},
		{"accountant may not verify", domain.StatusPendingVerification, domain.ActionVerify, identityWith(domain.RoleAccountant)},
		{"accountant may not approve", domain.StatusVerified, domain.ActionApprove, identityWith(domain.RoleAccountant)},
		{"manager may not approve", domain.StatusVerified, domain.ActionApprove, identityWith(domain.RoleManager)},
		{"manager may not retrieve", domain.StatusRejected, domain.ActionRetrieve, identityWith(domain.RoleManager)},
		{"admin may not retrieve", domain.StatusRejected, domain.ActionRetrieve, identityWith(domain.RoleAdmin)},
		{"approve from draft", domain.StatusDraft, domain.ActionApprove, identityWith(domain.RoleOwner)},
		{"verify from draft", domain.StatusDraft, domain.ActionVerify, identityWith(domain.RoleManager)},
		{"submit from verified", domain.StatusVerified, domain.ActionSubmit, identityWith(domain.RoleOwner)},
		{"approve an approved entry again", domain.StatusApproved, domain.ActionApprove, identityWith(domain.RoleOwner)},
		{"reject an approved entry", domain.StatusApproved, domain.ActionReject, identityWith(domain.RoleAdmin)},
		{"unknown action", domain.StatusDraft, domain.EntryAction("archive"), identityWith(domain.RoleOwner)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NextStatus(tc.from, tc.action, tc.actor)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrForbidden), "expected forbidden, got %v", err)
		})
	}
}

func TestAuthorizeEdit(t *testing.T) {
	assert.NoError(t, AuthorizeEdit(domain.StatusDraft, identityWith(domain.RoleAccountant)))
	assert.NoError(t, AuthorizeEdit(domain.StatusRejected, identityWith(domain.RoleOwner)))

	err := AuthorizeEdit(domain.StatusApproved, identityWith(domain.RoleOwner))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = AuthorizeEdit(domain.StatusPendingVerification, identityWith(domain.RoleAccountant))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = AuthorizeEdit(domain.StatusDraft, identityWith(domain.RoleManager))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, domain.StatusPendingVerification, InitialStatus(identityWith(domain.RoleAccountant)))
	assert.Equal(t, domain.StatusPendingVerification, InitialStatus(identityWith(domain.RoleOwner)))
	assert.Equal(t, domain.StatusPendingVerification, InitialStatus(identityWith(domain.RoleAdmin)))
	assert.Equal(t, domain.StatusDraft, InitialStatus(identityWith(domain.RoleManager)))
	assert.Equal(t, domain.StatusDraft, InitialStatus(domain.Identity{UserID: "u"}))
}
