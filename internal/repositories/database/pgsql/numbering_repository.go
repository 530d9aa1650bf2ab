package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/docnum"
)

type PgxDocumentNumberRepository struct {
	pool *pgxpool.Pool
}

// newPgxDocumentNumberRepository creates a new repository for document number sequences.
func newPgxDocumentNumberRepository(pool *pgxpool.Pool) portsrepo.DocumentNumberRepository {
	return &PgxDocumentNumberRepository{pool: pool}
}

var _ portsrepo.DocumentNumberRepository = (*PgxDocumentNumberRepository)(nil)

// NextDocumentNumberInTx draws the next sequence value for (company, docType, year)
// inside the caller's transaction. The upsert takes a row lock on the sequence
// row, so concurrent callers for the same key serialize here and the drawn
// number commits or rolls back together with the document it names.
func (r *PgxDocumentNumberRepository) NextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, companyID string, docType docnum.DocType, year int) (string, error) {
	if !docType.IsValid() {
		return "", fmt.Errorf("unknown document type %q", docType)
	}

	query := `
		INSERT INTO document_sequences (company_id, doc_type, year, last_seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, doc_type, year)
		DO UPDATE SET last_seq = document_sequences.last_seq + 1
		RETURNING last_seq;
	`

	var seq int64
	if err := tx.QueryRow(ctx, query, companyID, docType, year).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to draw %s sequence for company %s year %d: %w", docType, companyID, year, err)
	}

	return docnum.Format(docType, year, seq), nil
}
