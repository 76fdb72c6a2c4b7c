package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "programctl",
		Usage:   "Run conference program engine operations against postgres",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Load environment defaults from `FILE`",
				Value:   ".env",
				EnvVars: []string{"PROGRAMCTL_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:    "actor",
				Aliases: []string{"a"},
				Usage:   "Actor id recorded on generations and manual assignments",
				Value:   "programctl",
			},
		},
		Commands: []*cli.Command{
			allocateCommand(),
			generateProgramCommand(),
			inspectCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
