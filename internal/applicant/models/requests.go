package models

import "strings"

// CreateApplicationRequest is the payload for submitting an application.
// Field names match the public enrollment form.
type CreateApplicationRequest struct {
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
}

// Normalize trims the identity-bearing fields and lowercases the email so
// uniqueness checks and lookups are case-insensitive.
func (r *CreateApplicationRequest) Normalize() {
	r.Lastname = strings.TrimSpace(r.Lastname)
	r.Firstname = strings.TrimSpace(r.Firstname)
	r.Middlename = strings.TrimSpace(r.Middlename)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	r.PreferredCourse = strings.TrimSpace(r.PreferredCourse)
}

// MissingFields returns the wire names of every required field the request
// leaves empty, in declaration order.
func (r *CreateApplicationRequest) MissingFields() []string {
	values := map[string]string{
		"lastname":         r.Lastname,
		"firstname":        r.Firstname,
		"birth_date":       r.BirthDate,
		"gender":           r.Gender,
		"mobile_number":    r.MobileNumber,
		"email":            r.Email,
		"preferred_course": r.PreferredCourse,
	}
	var missing []string
	for _, name := range requiredFields {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
