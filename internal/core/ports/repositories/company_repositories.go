package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// CompanyRepository reads tenant and membership data. Company CRUD beyond
// what authorization needs is an external concern.
type CompanyRepository interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindMember retrieves one user's membership in a company.
	FindMember(ctx context.Context, userID, companyID string) (*domain.CompanyMember, error)

	// FindDirectSubordinateIDs retrieves the user IDs of members whose
	// manager is managerID.
	FindDirectSubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error)
}
