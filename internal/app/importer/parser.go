package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parser turns roster rows into Records. Rows that fail validation are reported
// as RowErrors and parsing continues with the next row.
type Parser struct {
	csv    *csv.Reader
	header *Header

	seenIDs    map[string]int
	seenEmails map[string]int
}

// NewParser reads and resolves the header row of r. A *MissingColumnsError is
// returned when required columns are absent.
func NewParser(r io.Reader) (*Parser, error) {
	reader := csv.NewReader(NewStreamReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	row, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Columns: RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	header, err := ParseHeader(row)
	if err != nil {
		return nil, err
	}

	return &Parser{
		csv:        reader,
		header:     header,
		seenIDs:    make(map[string]int),
		seenEmails: make(map[string]int),
	}, nil
}

// Header returns the resolved header.
func (p *Parser) Header() *Header {
	return p.header
}

// Next returns the next valid record. Row numbers are physical line numbers, so
// the first data row under the header is row 2. A row that fails validation is
// returned as a non-nil *RowError with a zero Record. io.EOF marks the end of input; any
// other error means the file itself could not be read.
func (p *Parser) Next() (Record, *RowError, error) {
	for {
		row, err := p.csv.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return Record{}, &RowError{Row: parseErr.StartLine, Message: "Malformed row: " + parseErr.Err.Error()}, nil
			}
			return Record{}, nil, err
		}

		rowNum, _ := p.csv.FieldPos(0)

		if blank(row) {
			continue
		}

		if len(row) < p.header.Width() {
			return Record{}, &RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Missing values. Expected %d columns, got %d", p.header.Width(), len(row)),
			}, nil
		}

		rec := p.record(row, rowNum)
		if msg := rec.normalize(); msg != "" {
			return Record{}, &RowError{Row: rowNum, Message: msg}, nil
		}

		if _, dup := p.seenIDs[rec.StudentID]; dup {
			return Record{}, &RowError{Row: rowNum, Message: "Duplicate student ID in file"}, nil
		}
		if _, dup := p.seenEmails[rec.Email]; dup {
			return Record{}, &RowError{Row: rowNum, Message: "Duplicate email in file"}, nil
		}
		p.seenIDs[rec.StudentID] = rowNum
		p.seenEmails[rec.Email] = rowNum

		return rec, nil, nil
	}
}

func (p *Parser) record(row []string, rowNum int) Record {
	h := p.header
	return Record{
		Row:         rowNum,
		StudentID:   h.Value(row, ColStudentID),
		LastName:    h.Value(row, ColLastName),
		FirstName:   h.Value(row, ColFirstName),
		MiddleName:  h.Value(row, ColMiddle),
		Suffix:      h.Value(row, ColSuffix),
		Email:       h.Value(row, ColEmail),
		PhoneNumber: h.Value(row, ColPhone),
		Gender:      h.Value(row, ColGender),
		Course:      h.Value(row, ColCourse),
		YearLevel:   h.Value(row, ColYearLevel),
		Section:     h.Value(row, ColSection),
		Track:       h.Value(row, ColTrack),
	}
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
