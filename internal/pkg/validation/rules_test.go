package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandScientificNotation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9.171234567E+9", "9171234567"},
		{"9.17123E+9", "9171230000"},
		{"6.39171234567e+11", "639171234567"},
		{"1.2345E+2", "123"},
		{"09171234567", "09171234567"},
		{"+63 917 123 4567", "+63 917 123 4567"},
		{" 9E+6 ", "9000000"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandScientificNotation(tt.in))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"09171234567", "09171234567", true},
		{"9.171234567E+9", "9171234567", true},
		{"(02) 123-4567", "(02) 123-4567", true},
		{"12345", "12345", false},
		{"phone", "phone", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestCanonicalYearLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"First Year", "First Year", true},
		{"second year", "Second Year", true},
		{"  THIRD   year ", "Third Year", true},
		{"fourth YEAR", "Fourth Year", true},
		{"Fifth Year", "", false},
		{"1st Year", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalYearLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestEmailHelpers(t *testing.T) {
	assert.True(t, IsValidEmail("juan@school.edu"))
	assert.False(t, IsValidEmail("juan@"))
	assert.False(t, IsValidEmail(""))

	assert.True(t, IsNoEmail("none"))
	assert.True(t, IsNoEmail(" NONE "))
	assert.False(t, IsNoEmail("none@x.com"))

	assert.Equal(t, "2021-0001@no-email.invalid", PlaceholderEmail("2021-0001"))
	assert.True(t, IsValidEmail(PlaceholderEmail("2021-0001")))
	assert.NotEqual(t, PlaceholderEmail("A-1"), PlaceholderEmail("a-1"))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("José").WithMaxLength(4).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	assert.True(t, NewStringValidation("2021-0001").WithPattern(CompiledPatterns.Identifier).Validate())
	assert.False(t, NewStringValidation("bad id").WithPattern(CompiledPatterns.Identifier).Validate())
}
