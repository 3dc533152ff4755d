package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/supplyops/planner/internal/domain"
	"github.com/supplyops/planner/internal/export"
	"github.com/supplyops/planner/internal/ingest"
	"github.com/supplyops/planner/internal/planning"
)

func newPlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Compute a monthly supply plan from a demand file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Demand file (.csv or .xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Plan CSV output path (default: stdout)",
			},
			&cli.StringSliceFlag{
				Name:  "product",
				Usage: "Product to plan (repeatable; default: all products in the file)",
			},
			&cli.StringSliceFlag{
				Name:  "stock",
				Usage: "Initial stock as PRODUCT=QTY (repeatable; default 0)",
			},
		},
		Action: runPlan,
	}
}

func runPlan(c *cli.Context) error {
	table, err := ingest.ReadFile(c.String("input"))
	if err != nil {
		return err
	}

	selected := c.StringSlice("product")
	if len(selected) == 0 {
		selected = table.Products()
	}

	stocks, err := parseStockFlags(c.StringSlice("stock"))
	if err != nil {
		return err
	}

	plan := planning.Generate(table, stocks, selected)
	if len(plan) == 0 {
		fmt.Fprintln(os.Stderr, "no plan rows generated (empty selection or no matching demand)")
	}

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return export.WritePlanCSV(out, plan)
}

func parseStockFlags(flags []string) (domain.InitialStocks, error) {
	stocks := make(domain.InitialStocks, len(flags))
	for _, flag := range flags {
		product, raw, ok := strings.Cut(flag, "=")
		if !ok || strings.TrimSpace(product) == "" {
			return nil, fmt.Errorf("invalid --stock value %q, expected PRODUCT=QTY", flag)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in --stock value %q: %w", flag, err)
		}
		if qty < 0 {
			return nil, fmt.Errorf("initial stock for %s must not be negative", product)
		}
		stocks[strings.TrimSpace(product)] = qty
	}
	return stocks, nil
}
