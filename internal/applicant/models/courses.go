package models

import "strings"

// courseShortcodes maps the URL shortcodes used by the admissions dashboard
// to full course names as stored on applicant records.
var courseShortcodes = map[string]string{
	"bscs":        "BS-Computer Science",
	"bsn":         "BS-Nursing",
	"beed":        "Bachelor of Elementary Education (Generalist)",
	"associate":   "Associate in Computer Studies",
	"ab":          "AB-Psychology",
	"coe":         "BS-Computer Engineering",
	"accountancy": "BS-Accountancy",
	"tourism":     "BS-Tourism Management",
	"culinary":    "BS-Hospitality Management (Culinary)",
	"cruise":      "BS-Hospitality Management (Cruise)",
	"bsee":        "Bachelor of Secondary Education (English)",
	"bses":        "Bachelor of Secondary Education (Science)",
	"bsem":        "Bachelor of Secondary Education (Math)",
	"bsef":        "Bachelor of Secondary Education (Filipino)",
	"bsess":       "Bachelor of Secondary Education (Social Science)",
	"bsahr":       "BS-Accountancy (Human Resource)",
	"bsafm":       "BS-Accountancy (Financial Management)",
	"bsam":        "BS-Accountancy (Marketing)",
}

// CourseFromShortcode resolves a dashboard shortcode to the full course
// name. Unknown codes pass through unchanged so full names also work.
func CourseFromShortcode(code string) string {
	if full, ok := courseShortcodes[strings.ToLower(code)]; ok {
		return full
	}
	return code
}
