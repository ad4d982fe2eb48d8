package main

import (
	"context"
	"fmt"

	"github.com/trezcool/academia/core/grade"
)

// recomputeGrades re-derives the stored grades matching filter, e.g. after a change of the letter scale.
func (cli *commandLine) recomputeGrades(ctx context.Context, filter grade.QueryFilter) error {
	n, err := cli.grades.Recompute(ctx, filter)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "recomputed %d grades\n", n)
	return nil
}
