package report

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ParseArgs reads the report options from args.
func ParseArgs(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	var filters, ranges listFlag

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { ShowHelp(stderr) }
	fs.StringVar(&cfg.DataPath, "data", "", "Parquet, CSV or XLSX records file (default: dataset_path from config)")
	fs.StringVar(&cfg.Sheet, "sheet", "", "Worksheet of an XLSX file (default: first sheet)")
	fs.StringVar(&cfg.Group, "group", "", "Variable group to aggregate (default: first group)")
	fs.Var(&filters, "filter", `Equality filter "Column=Value"; repeatable`)
	fs.Var(&ranges, "range", `Range filter "Column=lo:hi"; repeatable`)
	fs.BoolVar(&cfg.JSON, "json", false, "Print JSON instead of text")
	fs.BoolVar(&cfg.GroupsFiltered, "filtered-groups", false, "Apply filters to the group aggregates too")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	cfg.Filters = filters
	cfg.Ranges = ranges
	return cfg, nil
}

// ShowHelp prints usage information for the report tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Academic records report
=======================

Runs the dashboard filters and aggregations on a records file and prints
the outcome counts and the charts data of one variable group.

Usage:
  report [options]

Options:
  -data string
        Parquet, CSV or XLSX records file (default: dataset_path from config)
  -sheet string
        Worksheet of an XLSX file (default: first sheet)
  -group string
        Variable group to aggregate: Financeiro, Família, Demografia, Outros
  -filter "Column=Value"
        Equality filter; repeatable. "Todos" means no constraint.
  -range "Column=lo:hi"
        Range filter; repeatable. Either bound may be omitted.
  -json
        Print JSON instead of text
  -filtered-groups
        Apply filters to the group aggregates too

Configuration is read the same way as the server (ACADASH_* variables,
ACADASH_CONFIG file, .env).

Examples:
  report -data dataset.csv -filter "Gênero=Feminino" -range "Idade na inscrição=18:25"
  report -group Família -json
`)
}
