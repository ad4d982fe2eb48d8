// Package xlsxsvc reads and writes spreadsheets with excelize.
package xlsxsvc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

// roster columns, matched case-insensitively against the header row
const (
	colFirstName      = "first_name"
	colLastName       = "last_name"
	colEmail          = "email"
	colPhone          = "phone"
	colGradeLevel     = "grade_level"
	colDateOfBirth    = "date_of_birth"
	colEnrollmentDate = "enrollment_date"
	colStatus         = "status"
)

var (
	rosterColumns   = []string{colFirstName, colLastName, colEmail, colPhone, colGradeLevel, colDateOfBirth, colEnrollmentDate, colStatus}
	requiredColumns = []string{colFirstName, colLastName, colEmail, colGradeLevel}
)

// RosterRow is a student read from a roster sheet. Row is the 1-based row number in the sheet.
type RosterRow struct {
	Row     int
	Student student.NewStudent
}

// RowError reports a row that could not be read.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ReadRoster reads students from the first sheet of the workbook in r.
// The first row is the header; blank rows are skipped. Rows with unparsable cells are reported as RowErrors.
func ReadRoster(r io.Reader) ([]RosterRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, nil, errors.Errorf("sheet %q is empty", sheet)
	}

	cols := make(map[string]int, len(rosterColumns))
	for i, name := range rows[0] {
		cols[core.CleanString(name, true /* lower */)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, nil, errors.Errorf("missing column %q", name)
		}
	}

	var (
		students []RosterRow
		rowErrs  []RowError
	)
	for i, cells := range rows[1:] {
		rowNum := i + 2
		cell := func(name string) string {
			if idx, ok := cols[name]; ok && idx < len(cells) {
				return strings.TrimSpace(cells[idx])
			}
			return ""
		}
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}

		ns, err := parseStudent(cell)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: err})
			continue
		}
		students = append(students, RosterRow{Row: rowNum, Student: ns})
	}
	return students, rowErrs, nil
}

func parseStudent(cell func(string) string) (student.NewStudent, error) {
	ns := student.NewStudent{
		FirstName: cell(colFirstName),
		LastName:  cell(colLastName),
		Email:     cell(colEmail),
		Phone:     cell(colPhone),
		Status:    student.Status(strings.ToLower(cell(colStatus))),
	}

	if lvl := cell(colGradeLevel); lvl != "" {
		n, err := strconv.Atoi(lvl)
		if err != nil {
			return ns, errors.Errorf("%s: %q is not a number", colGradeLevel, lvl)
		}
		ns.GradeLevel = n
	}

	var err error
	if ns.DateOfBirth, err = parseDate(cell(colDateOfBirth)); err != nil {
		return ns, errors.Wrap(err, colDateOfBirth)
	}
	if ns.EnrollmentDate, err = parseDate(cell(colEnrollmentDate)); err != nil {
		return ns, errors.Wrap(err, colEnrollmentDate)
	}
	return ns, nil
}

// parseDate accepts ISO dates and spreadsheet serial dates.
func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return core.Date{}, err
		}
		return core.DateOf(t), nil
	}
	return core.ParseDate(s)
}
