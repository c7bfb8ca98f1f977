package importer

import (
	"strings"

	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/pkg/helpers"
	"github.com/yigit/enrollhub/internal/pkg/validation"
)

// Record is one validated roster row, normalised and ready to persist.
type Record struct {
	Row         int
	StudentID   string
	LastName    string
	FirstName   string
	MiddleName  string
	Suffix      string
	Email       string
	PhoneNumber string
	Gender      string
	Course      string
	YearLevel   string
	Section     string
	Track       string
}

// NewStudent converts r into the create model, attaching passwordHash.
func (r Record) NewStudent(passwordHash string) models.NewStudent {
	return models.NewStudent{
		StudentID:    r.StudentID,
		PasswordHash: passwordHash,
		LastName:     r.LastName,
		FirstName:    r.FirstName,
		MiddleName:   helpers.NilIfEmpty(r.MiddleName),
		Suffix:       helpers.NilIfEmpty(r.Suffix),
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Gender:       r.Gender,
		Course:       r.Course,
		YearLevel:    r.YearLevel,
		Section:      r.Section,
		Track:        helpers.NilIfEmpty(r.Track),
	}
}

type requiredField struct {
	label string
	value *string
}

// normalize validates r in place. The first failing rule is returned as the
// row's message; "" means the record is valid.
func (r *Record) normalize() string {
	required := []requiredField{
		{"Student ID", &r.StudentID},
		{"Last Name", &r.LastName},
		{"First Name", &r.FirstName},
		{"Email", &r.Email},
		{"Phone Number", &r.PhoneNumber},
		{"Gender", &r.Gender},
		{"Course", &r.Course},
		{"Year Level", &r.YearLevel},
		{"Section", &r.Section},
	}
	for _, f := range required {
		if strings.TrimSpace(*f.value) == "" {
			return f.label + " is required"
		}
	}

	if !validation.NewStringValidation(r.StudentID).
		WithMaxLength(validation.IdentifierMaxLength).
		WithPattern(validation.CompiledPatterns.Identifier).
		Validate() {
		return "Invalid student ID format"
	}
	for _, name := range []string{r.LastName, r.FirstName, r.MiddleName} {
		if !validation.NewStringValidation(name).WithRequired(false).WithMaxLength(validation.NameMaxLength).Validate() {
			return "Name is too long"
		}
	}

	if validation.IsNoEmail(r.Email) {
		r.Email = validation.PlaceholderEmail(r.StudentID)
	} else {
		r.Email = strings.ToLower(r.Email)
		if !validation.IsValidEmail(r.Email) {
			return "Invalid email format"
		}
	}

	phone, ok := validation.NormalizePhone(r.PhoneNumber)
	if !ok {
		return "Invalid phone number format"
	}
	r.PhoneNumber = phone

	level, ok := validation.CanonicalYearLevel(r.YearLevel)
	if !ok {
		return "Invalid year level"
	}
	r.YearLevel = level

	return ""
}
