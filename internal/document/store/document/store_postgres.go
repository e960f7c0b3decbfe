package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"paynroll/internal/document/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

const artifactColumns = "upload_id, admission_id, document_type, file_name, file_path, file_size, mime_type, uploaded_at"

// PostgresStore persists upload artifacts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, a *models.Artifact) error {
	query := `
		INSERT INTO applicant_documents (` + artifactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.UploadID, a.AdmissionID, a.DocumentType, a.FileName, a.FilePath, a.FileSize, a.MimeType, a.UploadedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("upload id %s already exists: %w", a.UploadID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM applicant_documents
		WHERE admission_id = $1
		ORDER BY uploaded_at DESC, upload_id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, admissionID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*models.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// Current returns the newest artifact of the given type, breaking
// same-instant ties on upload ID.
func (s *PostgresStore) Current(ctx context.Context, admissionID id.AdmissionID, docType models.DocumentType) (*models.Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM applicant_documents
		WHERE admission_id = $1 AND document_type = $2
		ORDER BY uploaded_at DESC, upload_id DESC
		LIMIT 1
	`
	a, err := scanArtifact(s.db.QueryRowContext(ctx, query, admissionID, docType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no %s for %s: %w", docType, admissionID, sentinel.ErrNotFound)
	}
	return a, err
}

func (s *PostgresStore) FindByUploadID(ctx context.Context, uploadID id.UploadID) (*models.Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM applicant_documents
		WHERE upload_id = $1
	`
	a, err := scanArtifact(s.db.QueryRowContext(ctx, query, uploadID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload %s: %w", uploadID, sentinel.ErrNotFound)
	}
	return a, err
}

type artifactRow interface {
	Scan(dest ...any) error
}

func scanArtifact(row artifactRow) (*models.Artifact, error) {
	var a models.Artifact
	err := row.Scan(&a.UploadID, &a.AdmissionID, &a.DocumentType,
		&a.FileName, &a.FilePath, &a.FileSize, &a.MimeType, &a.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &a, nil
}
