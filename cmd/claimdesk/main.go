package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "claimdesk",
		Usage: "Expense claim lifecycle and reconciliation service",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
