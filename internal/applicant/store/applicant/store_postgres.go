package applicant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"paynroll/internal/applicant/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

// PostgresStore persists applicant records in PostgreSQL.
// This store is pure I/O. Status rules and validation belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed applicant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const applicantColumns = `
	admission_id, applicant_status,
	lastname, firstname, middlename, suffix, birth_date, age, birth_place,
	gender, citizenship, civil_status, religion, ethnicity,
	street, barangay, municipality, province, home_address, mobile_number, email,
	last_school_attended, strand_taken, school_type, year_graduated, school_address,
	father_name, father_occupation, mother_name, mother_occupation, parent_number, family_income,
	preferred_course, alternate_course_1, alternate_course_2,
	created_at, updated_at`

// Create inserts a record. Unique violations on the admission ID or the
// lowercased email surface as ErrConflict, never as a raw driver error.
func (s *PostgresStore) Create(ctx context.Context, a *models.Applicant) error {
	query := `
		INSERT INTO applicants (` + applicantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
			$27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.AdmissionID, a.Status,
		a.Lastname, a.Firstname, a.Middlename, a.Suffix, a.BirthDate, a.Age, a.BirthPlace,
		a.Gender, a.Citizenship, a.CivilStatus, a.Religion, a.Ethnicity,
		a.Street, a.Barangay, a.Municipality, a.Province, a.HomeAddress, a.MobileNumber, a.Email,
		a.LastSchoolAttended, a.StrandTaken, a.SchoolType, a.YearGraduated, a.SchoolAddress,
		a.FatherName, a.FatherOccupation, a.MotherName, a.MotherOccupation, a.ParentNumber, a.FamilyIncome,
		a.PreferredCourse, a.AlternateCourse1, a.AlternateCourse2,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("applicant already exists: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create applicant: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, admissionID id.AdmissionID) (*models.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE admission_id = $1`
	a, err := scanApplicant(s.db.QueryRowContext(ctx, query, admissionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("applicant not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find applicant by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE LOWER(email) = LOWER($1) LIMIT 1`
	a, err := scanApplicant(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("applicant not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find applicant by email: %w", err)
	}
	return a, nil
}

// UpdateStatusReturning atomically sets the status and returns the updated
// record in one round trip, preventing read-modify-write races between
// concurrent decisions.
func (s *PostgresStore) UpdateStatusReturning(ctx context.Context, admissionID id.AdmissionID, status models.Status, now time.Time) (*models.Applicant, error) {
	query := `
		UPDATE applicants
		SET applicant_status = $2, updated_at = $3
		WHERE admission_id = $1
		RETURNING ` + applicantColumns
	a, err := scanApplicant(s.db.QueryRowContext(ctx, query, admissionID, status, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("applicant not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("update applicant status: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM applicants WHERE applicant_status = $1`
	if err := s.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("count applicants by status: %w", err)
	}
	return count, nil
}

// List returns all records ordered by creation time. Order is "asc" for
// oldest first, anything else for newest first.
func (s *PostgresStore) List(ctx context.Context, order string) ([]*models.Applicant, error) {
	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}
	query := `SELECT ` + applicantColumns + ` FROM applicants ORDER BY created_at ` + direction
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()
	return collectApplicants(rows)
}

func (s *PostgresStore) ListByCourse(ctx context.Context, course string) ([]*models.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE preferred_course = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, course)
	if err != nil {
		return nil, fmt.Errorf("list applicants by course: %w", err)
	}
	defer rows.Close()
	return collectApplicants(rows)
}

type applicantRow interface {
	Scan(dest ...any) error
}

func scanApplicant(row applicantRow) (*models.Applicant, error) {
	var a models.Applicant
	err := row.Scan(
		&a.AdmissionID, &a.Status,
		&a.Lastname, &a.Firstname, &a.Middlename, &a.Suffix, &a.BirthDate, &a.Age, &a.BirthPlace,
		&a.Gender, &a.Citizenship, &a.CivilStatus, &a.Religion, &a.Ethnicity,
		&a.Street, &a.Barangay, &a.Municipality, &a.Province, &a.HomeAddress, &a.MobileNumber, &a.Email,
		&a.LastSchoolAttended, &a.StrandTaken, &a.SchoolType, &a.YearGraduated, &a.SchoolAddress,
		&a.FatherName, &a.FatherOccupation, &a.MotherName, &a.MotherOccupation, &a.ParentNumber, &a.FamilyIncome,
		&a.PreferredCourse, &a.AlternateCourse1, &a.AlternateCourse2,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectApplicants(rows *sql.Rows) ([]*models.Applicant, error) {
	var out []*models.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applicants: %w", err)
	}
	return out, nil
}
