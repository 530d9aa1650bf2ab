package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

type PgxCompanyRepository struct {
	pool *pgxpool.Pool
}

// newPgxCompanyRepository creates a new repository for company and membership data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepository {
	return &PgxCompanyRepository{pool: pool}
}

var _ portsrepo.CompanyRepository = (*PgxCompanyRepository)(nil)

// FindCompanyByID retrieves a company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, base_currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`

	var c domain.Company
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&c.CompanyID,
		&c.Name,
		&c.BaseCurrencyCode,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}
	return &c, nil
}

// FindMember retrieves one user's membership in a company.
func (r *PgxCompanyRepository) FindMember(ctx context.Context, userID, companyID string) (*domain.CompanyMember, error) {
	query := `
		SELECT user_id, company_id, role, manager_id, joined_at
		FROM company_members
		WHERE user_id = $1 AND company_id = $2;
	`

	var m domain.CompanyMember
	err := r.pool.QueryRow(ctx, query, userID, companyID).Scan(
		&m.UserID,
		&m.CompanyID,
		&m.Role,
		&m.ManagerID,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member %s in company %s: %w", userID, companyID, err)
	}
	return &m, nil
}

// FindDirectSubordinateIDs retrieves the user IDs of members whose manager is managerID.
func (r *PgxCompanyRepository) FindDirectSubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error) {
	query := `
		SELECT user_id
		FROM company_members
		WHERE company_id = $1 AND manager_id = $2;
	`

	rows, err := r.pool.Query(ctx, query, companyID, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subordinates of %s in company %s: %w", managerID, companyID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subordinate row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subordinate rows: %w", err)
	}

	return ids, nil
}
