package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/docnum"
)

// DocumentNumberRepository issues unique, sequential per-company-per-year
// document numbers. Issuance is serialized per (company, docType, year); two
// concurrent callers never receive the same number.
type DocumentNumberRepository interface {
	// NextDocumentNumberInTx draws the next number inside an enclosing
	// transaction so that the number and the document it names commit
	// together.
	NextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, companyID string, docType docnum.DocType, year int) (string, error)
}
