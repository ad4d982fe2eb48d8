package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/storage/database"
)

var migrateFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.db == nil {
		return errors.New("migrations require the postgres storage")
	}
	return migrateFunc(ctx, cli.db, args[0], args[1:]...)
}
