package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

const notificationColumns = `notification_id, company_id, type, severity, title, message, entity_type, entity_id, read, created_at`

type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

// newPgxNotificationRepository creates a new repository for derived notifications.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{pool: pool}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

// SaveIfAbsent inserts a notification unless an unread one with the same
// (company, type, entity) already exists. The partial unique index on unread
// notifications turns the duplicate insert into a no-op.
func (r *PgxNotificationRepository) SaveIfAbsent(ctx context.Context, n domain.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id, type, entity_id) WHERE read = FALSE
		DO NOTHING;
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		n.NotificationID,
		n.CompanyID,
		n.Type,
		n.Severity,
		n.Title,
		n.Message,
		n.EntityType,
		n.EntityID,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save notification %s: %w", n.NotificationID, err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// ListNotifications retrieves notifications for a company, unread first, newest first.
func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE company_id = $1
	`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += `
		ORDER BY read, created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for company %s: %w", companyID, err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.NotificationID,
			&n.CompanyID,
			&n.Type,
			&n.Severity,
			&n.Title,
			&n.Message,
			&n.EntityType,
			&n.EntityID,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// MarkRead flags a notification as read, scoped to the company.
func (r *PgxNotificationRepository) MarkRead(ctx context.Context, companyID, notificationID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE notification_id = $1 AND company_id = $2;`

	cmdTag, err := r.pool.Exec(ctx, query, notificationID, companyID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
