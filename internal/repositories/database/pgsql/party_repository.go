package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for customer and vendor data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepository {
	return &PgxPartyRepository{pool: pool}
}

var _ portsrepo.PartyRepository = (*PgxPartyRepository)(nil)

// SaveCustomer inserts a new customer.
func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, company_id, name, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	_, err := r.pool.Exec(ctx, query,
		customer.CustomerID,
		customer.CompanyID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.IsActive,
		customer.CreatedAt,
		customer.CreatedBy,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: customer %s already exists", apperrors.ErrDuplicate, customer.CustomerID)
		}
		return fmt.Errorf("failed to save customer %s: %w", customer.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, company_id, name, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE customer_id = $1;
	`

	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&c.CustomerID,
		&c.CompanyID,
		&c.Name,
		&c.Email,
		&c.Phone,
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
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}
	return &c, nil
}

// ListCustomers retrieves active customers for a company ordered by name.
func (r *PgxPartyRepository) ListCustomers(ctx context.Context, companyID string, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT customer_id, company_id, name, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers for company %s: %w", companyID, err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.CustomerID,
			&c.CompanyID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.IsActive,
			&c.CreatedAt,
			&c.CreatedBy,
			&c.LastUpdatedAt,
			&c.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return customers, nil
}

// SaveVendor inserts a new vendor.
func (r *PgxPartyRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	query := `
		INSERT INTO vendors (vendor_id, company_id, name, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	_, err := r.pool.Exec(ctx, query,
		vendor.VendorID,
		vendor.CompanyID,
		vendor.Name,
		vendor.Email,
		vendor.Phone,
		vendor.IsActive,
		vendor.CreatedAt,
		vendor.CreatedBy,
		vendor.LastUpdatedAt,
		vendor.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: vendor %s already exists", apperrors.ErrDuplicate, vendor.VendorID)
		}
		return fmt.Errorf("failed to save vendor %s: %w", vendor.VendorID, err)
	}
	return nil
}

// FindVendorByID retrieves a vendor by its ID.
func (r *PgxPartyRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	query := `
		SELECT vendor_id, company_id, name, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM vendors
		WHERE vendor_id = $1;
	`

	var v domain.Vendor
	err := r.pool.QueryRow(ctx, query, vendorID).Scan(
		&v.VendorID,
		&v.CompanyID,
		&v.Name,
		&v.Email,
		&v.Phone,
		&v.IsActive,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor by ID %s: %w", vendorID, err)
	}
	return &v, nil
}

// ListVendors retrieves active vendors for a company ordered by name.
func (r *PgxPartyRepository) ListVendors(ctx context.Context, companyID string, limit, offset int) ([]domain.Vendor, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT vendor_id, company_id, name, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM vendors
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors for company %s: %w", companyID, err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(
			&v.VendorID,
			&v.CompanyID,
			&v.Name,
			&v.Email,
			&v.Phone,
			&v.IsActive,
			&v.CreatedAt,
			&v.CreatedBy,
			&v.LastUpdatedAt,
			&v.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		vendors = append(vendors, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor rows: %w", err)
	}

	return vendors, nil
}
