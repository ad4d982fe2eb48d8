package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/gradebook"
	"github.com/trezcool/academia/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sql.DB // nil with the in-memory storage
	out        io.Writer
	students   *student.Service
	grades     *grade.Service
	gradebooks *gradebook.Service
	validate   *validator.Validate
	translator ut.Translator
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                         - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  importroster -file PATH [-partial]             - enroll the students of a spreadsheet")
	fmt.Fprintln(cli.out, "  exportgradebook -class ID [-out PATH]          - write the gradebook of a class to a spreadsheet")
	fmt.Fprintln(cli.out, "  recomputegrades [-student ID] [-class ID]      - re-derive the percentage and letter of stored grades")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	importCmd := cli.newFlagSet("importroster")
	importFile := importCmd.String("file", "", "The .xlsx roster. Its first sheet must have first_name, last_name, email and grade_level columns.")
	importPartial := importCmd.Bool("partial", false, "Import the valid rows even if some rows are invalid.")

	exportCmd := cli.newFlagSet("exportgradebook")
	exportClass := exportCmd.Int("class", 0, "The ID of the class.")
	exportOut := exportCmd.String("out", "", "The output file. Defaults to gradebook-<class>.xlsx.")

	recomputeCmd := cli.newFlagSet("recomputegrades")
	recomputeStudent := recomputeCmd.Int("student", 0, "Only recompute the grades of this student.")
	recomputeClass := recomputeCmd.Int("class", 0, "Only recompute the grades of this class.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "importroster":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importRoster(ctx, *importFile, *importPartial)
	case "exportgradebook":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportClass <= 0 {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportGradebook(ctx, *exportClass, *exportOut)
	case "recomputegrades":
		if err := recomputeCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.recomputeGrades(ctx, grade.QueryFilter{StudentID: *recomputeStudent, ClassID: *recomputeClass})
	default:
		cli.printUsage()
		return errHelp
	}
}
