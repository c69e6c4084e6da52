package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
)

func main() {
	container := newContainer()

	err := container.Invoke(func(cli *commandLine) {
		if err := cli.run(os.Args); err != nil {
			if !errors.Is(err, errHelp) {
				cli.reportError(err)
			}
			os.Exit(1)
		}
	})
	if err != nil {
		log.Fatal(errors.Wrap(err, "starting admin"))
	}
}
