package graph

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular summary of the graph passes, their connectivity and the
// marked outputs.
func (g *Graph) Stats() string {
	fanIn := make(map[string]int, len(g.passes))
	fanOut := make(map[string]int, len(g.passes))
	for e := range g.edges {
		fanOut[e.Src.Pass]++
		fanIn[e.Dst.Pass]++
	}

	outputs := make(map[string][]string, len(g.outputs))
	for _, out := range g.outputs {
		outputs[out.Pass] = append(outputs[out.Pass], out.Name)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Type", "Options", "Fan-in", "Fan-out", "Graph outputs"})
	for _, p := range g.passes {
		opts := "-"
		if len(p.Options) != 0 {
			opts = fmt.Sprintf("%d", len(p.Options))
		}
		outs := "-"
		if names := outputs[p.Name]; len(names) != 0 {
			outs = strings.Join(names, ", ")
		}
		table.Append([]string{
			p.Name,
			p.Type,
			opts,
			fmt.Sprintf("%d", fanIn[p.Name]),
			fmt.Sprintf("%d", fanOut[p.Name]),
			outs,
		})
	}
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d passes", len(g.passes)),
		" ",
		fmt.Sprintf("%d edges", len(g.edges)),
		" ",
		fmt.Sprintf("%d outputs", len(g.outputs)),
	})

	table.Render()
	return buf.String()
}
