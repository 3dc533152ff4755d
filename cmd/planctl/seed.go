package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/supplyops/planner/internal/ingest"
	"github.com/supplyops/planner/internal/planning"
	"github.com/supplyops/planner/internal/repository/postgres"
)

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Compute a plan from a demand file and store it as a plan run",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Demand file (.csv or .xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Session id to record the run under",
				Value: "seed",
			},
		},
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	table, err := ingest.ReadFile(c.String("input"))
	if err != nil {
		return err
	}

	plan := planning.Generate(table, nil, table.Products())

	runID, err := postgres.NewPlanRunRepository(db).SaveRun(c.Context, c.String("session"), plan)
	if err != nil {
		return err
	}

	fmt.Printf("stored plan run %d (%d rows, session %q)\n", runID, len(plan), c.String("session"))
	return nil
}
