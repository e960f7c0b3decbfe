package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"paynroll/internal/notification/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

// PostgresStore persists notification records in PostgreSQL.
//
// The table deliberately carries no foreign key to applicants: a record
// write that loses a race with an applicant deletion degrades to a warning
// at the service layer instead of failing the whole operation.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed notification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, r *models.Record) error {
	query := `
		INSERT INTO applicant_notifications (notification_id, admission_id, message, notification_type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.NotificationID.String(), r.AdmissionID, r.Message, r.Type, r.IsRead, r.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("notification id already exists: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Record, error) {
	query := `
		SELECT notification_id, admission_id, message, notification_type, is_read, created_at
		FROM applicant_notifications
		WHERE admission_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, admissionID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		var r models.Record
		var rawID string
		if err := rows.Scan(&rawID, &r.AdmissionID, &r.Message, &r.Type, &r.IsRead, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		parsed, err := id.ParseNotificationID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse stored notification id: %w", err)
		}
		r.NotificationID = parsed
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, notificationID id.NotificationID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE applicant_notifications SET is_read = TRUE WHERE notification_id = $1`,
		notificationID.String())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("notification not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
