package xlsxsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core/gradebook"
)

const gradebookSheet = "Gradebook"

// WriteGradebook writes gb as a workbook: one row per student, one column per assignment (percentages),
// then the average and the attendance rate.
func WriteGradebook(w io.Writer, gb gradebook.Gradebook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), gradebookSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	header := make([]interface{}, 0, len(gb.Assignments)+4)
	header = append(header, "Student", "Email")
	for _, a := range gb.Assignments {
		header = append(header, a.Name)
	}
	header = append(header, "Average", "Attendance %")
	if err := f.SetSheetRow(gradebookSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for i, row := range gb.Rows {
		values := make([]interface{}, 0, len(header))
		values = append(values, row.Student.FullName(), row.Student.Email)
		for _, a := range gb.Assignments {
			if pct, ok := row.Grades[a.ID]; ok {
				values = append(values, pct)
			} else {
				values = append(values, nil)
			}
		}
		values = append(values, row.Average, row.AttendanceRate)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(gradebookSheet, cell, &values); err != nil {
			return errors.Wrapf(err, "writing row of student %d", row.Student.ID)
		}
	}

	if err := f.SetPanes(gradebookSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return errors.Wrap(err, "freezing header")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
