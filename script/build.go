package script

import (
	"github.com/achilleasa/passgraph/graph"
	"github.com/achilleasa/passgraph/plugin"
	"github.com/pkg/errors"
)

// Build loads the script libraries into loader and constructs a graph
// descriptor for every graph definition. Construction stops at the first
// invalid pass, edge or output; errors.Cause returns the descriptor error.
func (sc *Script) Build(loader *plugin.Loader) ([]*graph.Graph, error) {
	for _, lib := range sc.Libraries {
		if err := loader.LoadLibrary(lib); err != nil {
			return nil, errors.Wrapf(err, "load library %q", lib)
		}
	}

	graphs := make([]*graph.Graph, 0, len(sc.Graphs))
	for i := range sc.Graphs {
		g, err := sc.Graphs[i].Build()
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// Build the graph descriptor by replaying the definition in declaration order.
func (gd *GraphDef) Build() (*graph.Graph, error) {
	g := graph.New(gd.Name)
	for _, pd := range gd.Passes {
		if err := g.AddPass(graph.NewPass(pd.Type, graph.Options(pd.Options)), pd.Name); err != nil {
			return nil, errors.Wrapf(err, "graph %q: add pass %q", gd.Name, pd.Name)
		}
	}
	for _, ed := range gd.Edges {
		if err := g.AddEdge(ed.Src, ed.Dst); err != nil {
			return nil, errors.Wrapf(err, "graph %q: add edge %s -> %s", gd.Name, ed.Src, ed.Dst)
		}
	}
	for _, out := range gd.Outputs {
		if err := g.MarkOutput(out); err != nil {
			return nil, errors.Wrapf(err, "graph %q: mark output %s", gd.Name, out)
		}
	}
	return g, nil
}

// Convert a graph descriptor back into a definition. Edges are emitted in
// canonical order.
func DefFromGraph(g *graph.Graph) GraphDef {
	gd := GraphDef{Name: g.Name()}
	for _, p := range g.Passes() {
		gd.Passes = append(gd.Passes, PassDef{Name: p.Name, Type: p.Type, Options: OptionMap(p.Options.Clone())})
	}
	for _, e := range g.Edges() {
		gd.Edges = append(gd.Edges, EdgeDef{Src: e.Src.String(), Dst: e.Dst.String()})
	}
	for _, out := range g.Outputs() {
		gd.Outputs = append(gd.Outputs, out.String())
	}
	return gd
}
