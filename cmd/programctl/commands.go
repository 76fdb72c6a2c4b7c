package main

import (
	"encoding/json"
	"fmt"
	"io"

	"confhub/contexts/conference-program/program-engine/domain/entities"
	programhttp "confhub/contexts/conference-program/program-engine/transport/http"
	"confhub/internal/app/bootstrap"
	"confhub/internal/platform/config"

	"github.com/urfave/cli/v2"
)

func eventFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "event",
		Aliases:  []string{"e"},
		Usage:    "Event id",
		Required: true,
	}
}

func expectedGenerationFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  "expected-generation",
		Usage: "Refuse to run unless the stored generation equals `N`",
	}
}

func allocateCommand() *cli.Command {
	return &cli.Command{
		Name:  "allocate",
		Usage: "Replace the event's bulk reviewer assignments with an even split",
		Flags: []cli.Flag{eventFlag(), expectedGenerationFlag()},
		Action: func(c *cli.Context) error {
			engine, err := openEngine(c)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Module.Handler.AllocateReviewersHandler(
				c.Context,
				c.String("actor"),
				c.String("event"),
				programhttp.AllocateReviewersRequest{ExpectedGeneration: expectedGeneration(c)},
			)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, resp)
		},
	}
}

func generateProgramCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate-program",
		Usage: "Replace the event's sessions with a generated program",
		Flags: []cli.Flag{eventFlag(), expectedGenerationFlag()},
		Action: func(c *cli.Context) error {
			engine, err := openEngine(c)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Module.Handler.GenerateProgramHandler(
				c.Context,
				c.String("actor"),
				c.String("event"),
				programhttp.GenerateProgramRequest{ExpectedGeneration: expectedGeneration(c)},
			)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, resp)
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the current generation and what the next run would discard",
		Flags: []cli.Flag{
			eventFlag(),
			&cli.StringFlag{
				Name:  "kind",
				Usage: fmt.Sprintf("Generation kind (%s or %s)", entities.GenerationKindBulkAssignments, entities.GenerationKindProgram),
				Value: string(entities.GenerationKindProgram),
			},
		},
		Action: func(c *cli.Context) error {
			engine, err := openEngine(c)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Module.Handler.InspectGenerationHandler(c.Context, c.String("event"), c.String("kind"))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, resp)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the program engine tables",
		Action: func(c *cli.Context) error {
			engine, err := openEngine(c)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.Repository.Migrate(c.Context); err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, "migration complete")
			return err
		},
	}
}

func openEngine(c *cli.Context) (*bootstrap.Engine, error) {
	cfg, err := config.LoadFiles(c.String("env-file"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// programctl migrates explicitly; metrics have no scrape endpoint here.
	cfg.EnableAutoMigrate = false
	cfg.EnableMetrics = false
	return bootstrap.BuildEngine(c.Context, cfg, "programctl")
}

func expectedGeneration(c *cli.Context) *int64 {
	if !c.IsSet("expected-generation") {
		return nil
	}
	value := c.Int64("expected-generation")
	return &value
}

func printJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
