package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	xlsxsvc "github.com/trezcool/academia/services/xlsx"
)

func (cli *commandLine) exportGradebook(ctx context.Context, classID int, path string) error {
	gb, err := cli.gradebooks.Build(ctx, classID)
	if err != nil {
		return err
	}
	if path == "" {
		path = fmt.Sprintf("gradebook-%d.xlsx", classID)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating gradebook file")
	}
	if err = xlsxsvc.WriteGradebook(f, gb); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing gradebook file")
	}

	fmt.Fprintf(cli.out, "wrote the gradebook of %s (%d students) to %s\n", gb.Class.Name, len(gb.Rows), path)
	return nil
}
