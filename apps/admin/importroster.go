package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	xlsxsvc "github.com/trezcool/academia/services/xlsx"
)

// importRoster enrolls the students of the spreadsheet at path.
// Unless partial is set, nothing is imported when a row is invalid.
func (cli *commandLine) importRoster(ctx context.Context, path string, partial bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening roster")
	}
	defer func() { _ = f.Close() }()

	rows, rowErrs, err := xlsxsvc.ReadRoster(f)
	if err != nil {
		return err
	}
	total := len(rows) + len(rowErrs)

	valid := make([]student.NewStudent, 0, len(rows))
	for _, row := range rows {
		ns := row.Student
		if err = core.TranslateValidationErrors(ns.Validate(cli.validate), cli.translator); err != nil {
			rowErrs = append(rowErrs, xlsxsvc.RowError{Row: row.Row, Err: err})
			continue
		}
		valid = append(valid, ns)
	}

	sort.Slice(rowErrs, func(i, j int) bool { return rowErrs[i].Row < rowErrs[j].Row })
	for _, rowErr := range rowErrs {
		fmt.Fprintln(cli.out, rowErr.Error())
	}
	if len(rowErrs) > 0 && !partial {
		return errors.Errorf("%d of %d rows are invalid, nothing imported", len(rowErrs), total)
	}
	if len(valid) == 0 {
		fmt.Fprintln(cli.out, "nothing to import")
		return nil
	}

	created, err := cli.students.CreateMany(ctx, valid, core.AllowPartial())
	fmt.Fprintf(cli.out, "imported %d of %d students\n", len(created), total)
	var pErr *core.PartialFailure
	if errors.As(err, &pErr) && partial {
		fmt.Fprintf(cli.out, "%d students not imported: %s\n", pErr.Failed, pErr.Message)
		return nil
	}
	return err
}
