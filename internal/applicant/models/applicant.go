package models

import (
	"strings"
	"time"

	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
)

// Applicant is the aggregate root for one application.
//
// Invariants:
//   - AdmissionID is assigned once at creation and never changes
//   - Email is stored lowercase; at most one record may hold it
//   - Status starts at pending and only moves to accepted or rejected
//   - CreatedAt is immutable after construction
type Applicant struct {
	AdmissionID id.AdmissionID `json:"admission_id"`
	Status      Status         `json:"applicant_status"`

	// Personal information
	Lastname    string `json:"lastname"`
	Firstname   string `json:"firstname"`
	Middlename  string `json:"middlename"`
	Suffix      string `json:"suffix"`
	BirthDate   string `json:"birth_date"`
	Age         string `json:"age"`
	BirthPlace  string `json:"birth_place"`
	Gender      string `json:"gender"`
	Citizenship string `json:"citizenship"`
	CivilStatus string `json:"civil_status"`
	Religion    string `json:"religion"`
	Ethnicity   string `json:"ethnicity"`

	// Address
	Street       string `json:"street"`
	Barangay     string `json:"barangay"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	HomeAddress  string `json:"home_address"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email"`

	// Educational background
	LastSchoolAttended string `json:"last_school_attended"`
	StrandTaken        string `json:"strand_taken"`
	SchoolType         string `json:"school_type"`
	YearGraduated      string `json:"year_graduated"`
	SchoolAddress      string `json:"school_address"`

	// Family information
	FatherName       string `json:"father_name"`
	FatherOccupation string `json:"father_occupation"`
	MotherName       string `json:"mother_name"`
	MotherOccupation string `json:"mother_occupation"`
	ParentNumber     string `json:"parent_number"`
	FamilyIncome     string `json:"family_income"`

	// Course preferences
	PreferredCourse  string `json:"preferred_course"`
	AlternateCourse1 string `json:"alternate_course_1"`
	AlternateCourse2 string `json:"alternate_course_2"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName renders the applicant's display name for email salutations.
func (a *Applicant) FullName() string {
	return strings.TrimSpace(a.Firstname + " " + a.Lastname)
}

// requiredFields maps the fields an application cannot be created without
// to their wire names, in the order validation reports them.
var requiredFields = []string{
	"lastname", "firstname", "birth_date", "gender",
	"mobile_number", "email", "preferred_course",
}

// NewApplicant validates a request and builds a pending record.
// Every missing required field is reported at once, not just the first.
func NewApplicant(admissionID id.AdmissionID, req *CreateApplicationRequest, now time.Time) (*Applicant, error) {
	req.Normalize()
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"missing required fields: %s", strings.Join(missing, ", "))
	}

	return &Applicant{
		AdmissionID:        admissionID,
		Status:             StatusPending,
		Lastname:           req.Lastname,
		Firstname:          req.Firstname,
		Middlename:         req.Middlename,
		Suffix:             req.Suffix,
		BirthDate:          req.BirthDate,
		Age:                req.Age,
		BirthPlace:         req.BirthPlace,
		Gender:             req.Gender,
		Citizenship:        req.Citizenship,
		CivilStatus:        req.CivilStatus,
		Religion:           req.Religion,
		Ethnicity:          req.Ethnicity,
		Street:             req.Street,
		Barangay:           req.Barangay,
		Municipality:       req.Municipality,
		Province:           req.Province,
		HomeAddress:        req.HomeAddress,
		MobileNumber:       req.MobileNumber,
		Email:              req.Email,
		LastSchoolAttended: req.LastSchoolAttended,
		StrandTaken:        req.StrandTaken,
		SchoolType:         req.SchoolType,
		YearGraduated:      req.YearGraduated,
		SchoolAddress:      req.SchoolAddress,
		FatherName:         req.FatherName,
		FatherOccupation:   req.FatherOccupation,
		MotherName:         req.MotherName,
		MotherOccupation:   req.MotherOccupation,
		ParentNumber:       req.ParentNumber,
		FamilyIncome:       req.FamilyIncome,
		PreferredCourse:    req.PreferredCourse,
		AlternateCourse1:   req.AlternateCourse1,
		AlternateCourse2:   req.AlternateCourse2,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}
