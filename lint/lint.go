// Package lint checks render graphs against the port reflection data of the
// loaded pass libraries. Checks report issues; they never reject a graph.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/achilleasa/passgraph/graph"
	"github.com/achilleasa/passgraph/plugin"
)

type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue describes a problem detected in a graph. Subject is the pass, port or
// edge the issue refers to.
type Issue struct {
	Severity Severity
	Subject  string
	Msg      string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Subject, i.Msg)
}

// Check runs all checks against g and returns the detected issues ordered by
// subject. Pass types are resolved using the libraries recorded by loader.
func Check(g *graph.Graph, loader *plugin.Loader) []Issue {
	c := &checker{
		g:      g,
		loader: loader,
		types:  make(map[string]*plugin.Type),
	}
	c.resolveTypes()
	c.checkEdges()
	c.checkInputs()
	c.checkOutputs()
	c.checkCycles()

	sort.SliceStable(c.issues, func(i, j int) bool {
		return c.issues[i].Subject < c.issues[j].Subject
	})
	return c.issues
}

// Returns true if any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == Error {
			return true
		}
	}
	return false
}

type checker struct {
	g      *graph.Graph
	loader *plugin.Loader

	// Resolved pass types keyed by pass name. Passes whose type is unknown
	// are absent and their ports are not checked.
	types map[string]*plugin.Type

	issues []Issue
}

func (c *checker) report(sev Severity, subject, format string, args ...interface{}) {
	c.issues = append(c.issues, Issue{Severity: sev, Subject: subject, Msg: fmt.Sprintf(format, args...)})
}

func (c *checker) resolveTypes() {
	// Without reflection data for every loaded library a missing type may
	// simply live in one of the opaque ones.
	sev := Error
	if opaque := c.loader.Opaque(); len(opaque) != 0 {
		sev = Warning
	}

	for _, p := range c.g.Passes() {
		if t, ok := c.loader.Lookup(p.Type); ok {
			c.types[p.Name] = t
			continue
		}
		c.report(sev, p.Name, "pass type %q is not exported by any loaded library", p.Type)
	}
}

func (c *checker) checkEdges() {
	for _, e := range c.g.Edges() {
		if e.Src.IsPassRef() {
			continue
		}
		if t, ok := c.types[e.Src.Pass]; ok {
			if _, found := t.Output(e.Src.Name); !found {
				c.report(Error, e.String(), "%s has no output named %q", t.Name, e.Src.Name)
			}
		}
		if t, ok := c.types[e.Dst.Pass]; ok {
			if _, found := t.Input(e.Dst.Name); !found {
				c.report(Error, e.String(), "%s has no input named %q", t.Name, e.Dst.Name)
			}
		}
	}
}

// Each input accepts a single edge and required inputs must be connected.
func (c *checker) checkInputs() {
	feeds := make(map[graph.Port][]string)
	for _, e := range c.g.Edges() {
		if !e.Dst.IsPassRef() {
			feeds[e.Dst] = append(feeds[e.Dst], e.Src.String())
		}
	}
	for dst, srcs := range feeds {
		if len(srcs) > 1 {
			c.report(Error, dst.String(), "input is fed by %d edges (%s)", len(srcs), strings.Join(srcs, ", "))
		}
	}

	for _, p := range c.g.Passes() {
		t, ok := c.types[p.Name]
		if !ok {
			continue
		}
		for _, in := range t.Inputs {
			port := graph.Port{Pass: p.Name, Name: in.Name}
			if in.Optional || len(feeds[port]) != 0 {
				continue
			}
			c.report(Error, port.String(), "required input is not connected")
		}
	}
}

func (c *checker) checkOutputs() {
	outputs := c.g.Outputs()
	if len(outputs) == 0 {
		c.report(Warning, c.g.Name(), "graph has no outputs")
		return
	}

	for _, out := range outputs {
		t, ok := c.types[out.Pass]
		if !ok {
			continue
		}
		if _, found := t.Output(out.Name); !found {
			c.report(Error, out.String(), "%s has no output named %q", t.Name, out.Name)
		}
	}
}

// Report one cycle witness. The host rejects cyclic graphs when it compiles
// them.
func (c *checker) checkCycles() {
	names := c.g.PassNames()
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	outgoing := make([][]int, len(names))
	indeg := make([]int, len(names))
	seen := make(map[[2]int]struct{})
	for _, e := range c.g.Edges() {
		key := [2]int{index[e.Src.Pass], index[e.Dst.Pass]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		outgoing[key[0]] = append(outgoing[key[0]], key[1])
		indeg[key[1]]++
	}

	// Kahn's algorithm; whatever is left over sits on or behind a cycle.
	ready := make([]int, 0, len(names))
	for i, d := range indeg {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	visited := 0
	for len(ready) != 0 {
		n := ready[0]
		ready = ready[1:]
		visited++
		for _, m := range outgoing[n] {
			indeg[m]--
			if indeg[m] == 0 {
				ready = append(ready, m)
			}
		}
	}
	if visited == len(names) {
		return
	}

	path := findCycle(outgoing)
	cycle := make([]string, len(path))
	for i, n := range path {
		cycle[i] = names[n]
	}
	c.report(Error, c.g.Name(), "graph contains a cycle: %s", strings.Join(cycle, " -> "))
}

// Returns one cycle as a list of node indices whose first and last elements
// are the same node.
func findCycle(outgoing [][]int) []int {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(outgoing))
	var stack, cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		stack = append(stack, u)
		for _, v := range outgoing[u] {
			switch color[v] {
			case white:
				if dfs(v) {
					return true
				}
			case gray:
				for i, n := range stack {
					if n == v {
						cycle = append(append(cycle, stack[i:]...), v)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = black
		return false
	}

	for i := range outgoing {
		if color[i] == white && dfs(i) {
			break
		}
	}
	return cycle
}
