package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteText writes rep as aligned tables.
func WriteText(w io.Writer, rep Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	o := rep.Overview
	fmt.Fprintf(tw, "Dataset:\t%s (%d registros, %d colunas)\n", o.Source, o.Rows, o.Columns)
	filters := rep.Filters
	if filters == "" {
		filters = "nenhum"
	}
	fmt.Fprintf(tw, "Filtros:\t%s\n", filters)
	fmt.Fprintf(tw, "Registros filtrados:\t%d\n\n", rep.Outcome.Rows)

	fmt.Fprintf(tw, "%s\tRegistros\n", rep.Outcome.Column)
	for _, b := range rep.Outcome.Buckets {
		fmt.Fprintf(tw, "%s\t%d\n", b.Value, b.Count)
	}

	scope := "todos os registros"
	if rep.Group.Filtered {
		scope = "registros filtrados"
	}
	fmt.Fprintf(tw, "\nGrupo %s (%s, %d)\n", rep.Group.Name, scope, rep.Group.Rows)
	for _, v := range rep.Group.Variables {
		fmt.Fprintf(tw, "\n== %s [%s]\n", v.Column, v.Policy)
		if !v.Present {
			fmt.Fprintln(tw, "coluna ausente")
			continue
		}
		fmt.Fprintln(tw, "Valor\tRegistros")
		for _, b := range v.Distribution {
			fmt.Fprintf(tw, "%s\t%d\n", b.Value, b.Count)
		}
		fmt.Fprintf(tw, "\nValor\t%s\tRegistros\n", rep.Outcome.Column)
		for _, c := range v.Cross {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Value, c.Outcome, c.Count)
		}
	}
	return tw.Flush()
}
