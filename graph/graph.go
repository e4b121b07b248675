package graph

import "sort"

// Graph describes a render graph: named pass instances, the edges connecting
// their ports and the ports designated as graph outputs.
//
// A Graph is built once by a single goroutine and is read-only afterwards.
// It carries no execution semantics; ordering and running passes is left to
// the render host.
type Graph struct {
	name string

	// Passes in registration order.
	passes    []*Pass
	passIndex map[string]int

	edges map[Edge]struct{}

	// Output ports in the order they were marked.
	outputs []Port
}

// Create an empty graph.
func New(name string) *Graph {
	return &Graph{
		name:      name,
		passIndex: make(map[string]int),
		edges:     make(map[Edge]struct{}),
	}
}

// Returns the graph name.
func (g *Graph) Name() string {
	return g.name
}

// Register a pass instance under a unique name. The graph stores its own copy
// of the instance.
func (g *Graph) AddPass(p *Pass, name string) error {
	if p == nil {
		return ErrNilPass
	}
	if ref, err := ParsePort(name); err != nil || !ref.IsPassRef() {
		return &MalformedPortError{Ref: name, Reason: "invalid pass name"}
	}
	if _, exists := g.passIndex[name]; exists {
		return &DuplicateNameError{Name: name}
	}

	inst := p.Clone()
	inst.Name = name
	g.passIndex[name] = len(g.passes)
	g.passes = append(g.passes, inst)
	return nil
}

// Connect src to dst. Both references must name registered passes and must
// either both include a port or both refer to whole passes. Adding an edge
// that already exists is a no-op.
func (g *Graph) AddEdge(src, dst string) error {
	edge, err := g.resolveEdge(src, dst)
	if err != nil {
		return err
	}

	g.edges[edge] = struct{}{}
	return nil
}

// Remove the edge between src and dst if present.
func (g *Graph) RemoveEdge(src, dst string) error {
	edge, err := g.resolveEdge(src, dst)
	if err != nil {
		return err
	}

	delete(g.edges, edge)
	return nil
}

// Designate a port as a graph output. Marking the same port twice is a no-op.
func (g *Graph) MarkOutput(ref string) error {
	port, err := g.resolveOutput(ref)
	if err != nil {
		return err
	}

	for _, out := range g.outputs {
		if out == port {
			return nil
		}
	}
	g.outputs = append(g.outputs, port)
	return nil
}

// Remove an output designation if present.
func (g *Graph) UnmarkOutput(ref string) error {
	port, err := g.resolveOutput(ref)
	if err != nil {
		return err
	}

	for i, out := range g.outputs {
		if out == port {
			g.outputs = append(g.outputs[:i], g.outputs[i+1:]...)
			break
		}
	}
	return nil
}

func (g *Graph) resolveEdge(src, dst string) (Edge, error) {
	srcPort, err := g.resolve(src)
	if err != nil {
		return Edge{}, err
	}
	dstPort, err := g.resolve(dst)
	if err != nil {
		return Edge{}, err
	}

	if srcPort.IsPassRef() != dstPort.IsPassRef() {
		return Edge{}, &MalformedPortError{
			Ref:    src + " -> " + dst,
			Reason: "an edge must connect two ports or two passes",
		}
	}
	return Edge{Src: srcPort, Dst: dstPort}, nil
}

func (g *Graph) resolveOutput(ref string) (Port, error) {
	port, err := g.resolve(ref)
	if err != nil {
		return Port{}, err
	}
	if port.IsPassRef() {
		return Port{}, &MalformedPortError{Ref: ref, Reason: "outputs must name a port"}
	}
	return port, nil
}

// Parse a reference and make sure its pass is registered.
func (g *Graph) resolve(ref string) (Port, error) {
	port, err := ParsePort(ref)
	if err != nil {
		return Port{}, err
	}
	if _, exists := g.passIndex[port.Pass]; !exists {
		return Port{}, &UnknownPortError{Ref: ref, Pass: port.Pass}
	}
	return port, nil
}

// Lookup a registered pass by name.
func (g *Graph) Pass(name string) (*Pass, bool) {
	idx, exists := g.passIndex[name]
	if !exists {
		return nil, false
	}
	return g.passes[idx], true
}

// Returns the registered passes in registration order.
func (g *Graph) Passes() []*Pass {
	out := make([]*Pass, len(g.passes))
	copy(out, g.passes)
	return out
}

// Returns the registered pass names in registration order.
func (g *Graph) PassNames() []string {
	out := make([]string, 0, len(g.passes))
	for _, p := range g.passes {
		out = append(out, p.Name)
	}
	return out
}

// Returns true if the edge src -> dst is part of the graph.
func (g *Graph) HasEdge(src, dst string) bool {
	srcPort, err := ParsePort(src)
	if err != nil {
		return false
	}
	dstPort, err := ParsePort(dst)
	if err != nil {
		return false
	}
	_, exists := g.edges[Edge{Src: srcPort, Dst: dstPort}]
	return exists
}

// Returns the graph edges sorted by source and then destination port. The
// order does not depend on the order the edges were added in.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Returns the output ports in the order they were marked.
func (g *Graph) Outputs() []Port {
	out := make([]Port, len(g.outputs))
	copy(out, g.outputs)
	return out
}

// Equal reports whether two graphs have the same name, the same set of passes
// (by name, type and options), the same edge set and the same output set.
// Registration and marking order are ignored.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.name != other.name || len(g.passes) != len(other.passes) ||
		len(g.edges) != len(other.edges) || len(g.outputs) != len(other.outputs) {
		return false
	}

	for _, p := range g.passes {
		op, exists := other.Pass(p.Name)
		if !exists || !p.equal(op) {
			return false
		}
	}
	for e := range g.edges {
		if _, exists := other.edges[e]; !exists {
			return false
		}
	}

	outSet := make(map[Port]struct{}, len(other.outputs))
	for _, out := range other.outputs {
		outSet[out] = struct{}{}
	}
	for _, out := range g.outputs {
		if _, exists := outSet[out]; !exists {
			return false
		}
	}
	return true
}
