// Package report runs the dashboard pipeline offline and prints the
// outcome counts and group aggregates.
package report

import (
	"strings"
)

// Config holds the command-line options of the report tool.
type Config struct {
	DataPath       string
	Sheet          string
	Group          string
	Filters        []string
	Ranges         []string
	JSON           bool
	GroupsFiltered bool
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ", ") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}
