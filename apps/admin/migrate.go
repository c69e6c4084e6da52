package main

import (
	"context"

	"github.com/trezcool/ratiba/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	return gooseRunFunc(ctx, cli.db, args[0], args[1:]...)
}
