package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
)

// companyService resolves membership into identities and walks the manager
// hierarchy.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepository
}

// NewCompanyService creates a new company authorizer service.
func NewCompanyService(companyRepo portsrepo.CompanyRepository) portssvc.CompanyAuthorizerSvc {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanyAuthorizerSvc = (*companyService)(nil)

// ResolveIdentity returns the identity of userID within companyID. A missing
// membership or an inactive company yields a forbidden error.
func (s *companyService) ResolveIdentity(ctx context.Context, userID, companyID string) (domain.Identity, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
		}
		return domain.Identity{}, err
	}
	if !company.IsActive {
		return domain.Identity{}, fmt.Errorf("%w: company %s is inactive", apperrors.ErrForbidden, companyID)
	}

	member, err := s.companyRepo.FindMember(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: user %s is not a member of company %s", apperrors.ErrForbidden, userID, companyID)
		}
		return domain.Identity{}, err
	}

	return domain.Identity{UserID: userID, Roles: []domain.CompanyRole{member.Role}}, nil
}

// SubordinateIDs returns all transitive subordinate user IDs of managerID
// within a company. The walk is iterative over an explicit queue with a seen
// set, so a cyclic manager reference cannot loop or blow the stack.
func (s *companyService) SubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error) {
	seen := map[string]bool{managerID: true}
	queue := []string{managerID}
	result := []string{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		directs, err := s.companyRepo.FindDirectSubordinateIDs(ctx, companyID, current)
		if err != nil {
			return nil, fmt.Errorf("failed to expand subordinates of %s: %w", current, err)
		}

		for _, id := range directs {
			if seen[id] {
				continue
			}
			seen[id] = true
			result = append(result, id)
			queue = append(queue, id)
		}
	}

	return result, nil
}
