package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CompanyAuthorizerSvc resolves a caller into an identity carrying their
// role within a company. Every ledger operation authorizes through it.
type CompanyAuthorizerSvc interface {
	// ResolveIdentity returns the identity of userID within companyID, or
	// apperrors.ErrForbidden when the user is not a member.
	ResolveIdentity(ctx context.Context, userID, companyID string) (domain.Identity, error)

	// SubordinateIDs walks the manager hierarchy iteratively and returns all
	// transitive subordinate user IDs of managerID. Cycles are tolerated.
	SubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error)
}
