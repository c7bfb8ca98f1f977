package importer

import (
	"fmt"
	"strings"
)

// Column names recognised in a roster header, compared after lowercasing and trimming.
const (
	ColStudentID = "student_id"
	ColLastName  = "lname"
	ColFirstName = "fname"
	ColMiddle    = "mname"
	ColSuffix    = "suffix"
	ColEmail     = "email"
	ColPhone     = "phone_number"
	ColPhoneAlt  = "phone_nu"
	ColGender    = "gender"
	ColCourse    = "course"
	ColYearLevel = "yearlevel"
	ColSection   = "section"
	ColTrack     = "track"
)

// RequiredColumns must all be present; the phone column may use either name.
var RequiredColumns = []string{
	ColStudentID, ColLastName, ColFirstName, ColEmail, ColPhone,
	ColGender, ColCourse, ColYearLevel, ColSection,
}

// MissingColumnsError is returned by ParseHeader when required columns are absent.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing required columns: " + strings.Join(e.Columns, ", ")
}

// Header maps normalised column names to their position in each row.
type Header struct {
	index map[string]int
	width int
}

// ParseHeader builds a Header from the first row of a roster.
func ParseHeader(row []string) (*Header, error) {
	h := &Header{index: make(map[string]int, len(row)), width: len(row)}
	for i, name := range row {
		key := normalizeColumn(name)
		if key == "" {
			continue
		}
		if _, dup := h.index[key]; !dup {
			h.index[key] = i
		}
	}

	if _, ok := h.index[ColPhone]; !ok {
		if idx, alt := h.index[ColPhoneAlt]; alt {
			h.index[ColPhone] = idx
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := h.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return h, nil
}

// Width is the number of columns declared by the header row.
func (h *Header) Width() int {
	return h.width
}

// Has reports whether the header declares column.
func (h *Header) Has(column string) bool {
	_, ok := h.index[column]
	return ok
}

// Value returns the trimmed value of column in row, or "" when the column is
// absent from the header or the row is too short.
func (h *Header) Value(row []string, column string) string {
	idx, ok := h.index[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(name, "\ufeff")))
}

// RowError is a problem with one data row.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

func (e RowError) Error() string {
	return e.String()
}
