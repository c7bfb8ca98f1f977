package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Identifiers are free-form school ids such as 2021-00123 or C-0001.
	IdentifierPattern = `^[A-Za-z0-9][A-Za-z0-9._\-]*$`

	PasswordMinLength = 6

	NameMaxLength       = 100
	IdentifierMaxLength = 50
	PhoneMinDigits      = 7

	// NoEmailSentinel marks a record whose owner has no email address.
	NoEmailSentinel = "NONE"
	// PlaceholderEmailDomain receives generated addresses for NONE emails.
	PlaceholderEmailDomain = "no-email.invalid"
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Identifier *regexp.Regexp
	NonDigit   *regexp.Regexp
	Scientific *regexp.Regexp
}{
	Identifier: regexp.MustCompile(IdentifierPattern),
	NonDigit:   regexp.MustCompile(`\D`),
	Scientific: regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?[eE]\+?([0-9]+)$`),
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared go-playground validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// IsValidEmail reports whether email is a syntactically valid address.
func IsValidEmail(email string) bool {
	return email != "" && Validator().Var(email, "required,email") == nil
}

// IsNoEmail reports whether value is the NONE sentinel, case-insensitively.
func IsNoEmail(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), NoEmailSentinel)
}

// PlaceholderEmail builds the stand-in address stored for a NONE email. The
// local part keeps the id's case so ids differing only in case stay distinct.
func PlaceholderEmail(studentID string) string {
	return strings.TrimSpace(studentID) + "@" + PlaceholderEmailDomain
}

// ExpandScientificNotation undoes the exponent formatting spreadsheet tools apply
// to long digit strings, e.g. 9.171234567E+9 becomes 9171234567. Values that are
// not in that form are returned unchanged.
func ExpandScientificNotation(value string) string {
	value = strings.TrimSpace(value)
	m := CompiledPatterns.Scientific.FindStringSubmatch(value)
	if m == nil {
		return value
	}

	intPart, fracPart := m[1], m[2]
	exp := 0
	for _, ch := range m[3] {
		exp = exp*10 + int(ch-'0')
		if exp > 30 {
			return value
		}
	}

	digits := intPart + fracPart
	shift := len(intPart) + exp
	if shift < len(digits) {
		// Fractional digits remain; keep only the integer portion.
		return strings.TrimLeft(digits[:shift], "0")
	}
	return strings.TrimLeft(digits+strings.Repeat("0", shift-len(digits)), "0")
}

// NormalizePhone expands scientific notation and trims the value. ok is false
// when fewer than PhoneMinDigits digits remain.
func NormalizePhone(value string) (phone string, ok bool) {
	phone = ExpandScientificNotation(value)
	digits := CompiledPatterns.NonDigit.ReplaceAllString(phone, "")
	return phone, len(digits) >= PhoneMinDigits
}

// YearLevels lists the accepted year levels in canonical form.
var YearLevels = []string{"First Year", "Second Year", "Third Year", "Fourth Year"}

// CanonicalYearLevel maps a year level onto its canonical spelling, ignoring case
// and surrounding or repeated whitespace.
func CanonicalYearLevel(value string) (string, bool) {
	normalized := strings.Join(strings.Fields(value), " ")
	for _, level := range YearLevels {
		if strings.EqualFold(normalized, level) {
			return level, true
		}
	}
	return "", false
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation. Lengths count runes so accented names are not penalised.
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	length := len([]rune(v.Value))
	if v.MinLen > 0 && length < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}
