package graph

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustAddPasses(t *testing.T, g *Graph, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := g.AddPass(NewPass("Type"+name, nil), name); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAddPassRegistersNames(t *testing.T) {
	g := New("test")
	names := []string{"GBufferRT", "PhotonReStir", "AccumulatePass", "ToneMapper"}
	mustAddPasses(t, g, names...)

	if diff := cmp.Diff(names, g.PassNames()); diff != "" {
		t.Fatalf("registered pass names mismatch (-want +got):\n%s", diff)
	}

	for _, name := range names {
		p, exists := g.Pass(name)
		if !exists {
			t.Fatalf("expected pass %q to be registered", name)
		}
		if p.Name != name || p.Type != "Type"+name {
			t.Fatalf("expected pass %q of type %q; got %q of type %q", name, "Type"+name, p.Name, p.Type)
		}
	}
}

func TestAddPassDuplicateName(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "A", "B")
	before := g.Passes()

	err := g.AddPass(NewPass("Other", nil), "A")
	var dupErr *DuplicateNameError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected a DuplicateNameError; got %v", err)
	}
	if dupErr.Name != "A" || !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected error to reference pass A and match ErrDuplicateName; got %v", err)
	}

	after := g.Passes()
	if len(after) != len(before) {
		t.Fatalf("expected pass count to remain %d; got %d", len(before), len(after))
	}
	if p, _ := g.Pass("A"); p.Type != "TypeA" {
		t.Fatalf("expected original pass A to be preserved; got type %q", p.Type)
	}
}

func TestAddPassInvalidName(t *testing.T) {
	g := New("test")
	for _, name := range []string{"", "A.out", ".x"} {
		err := g.AddPass(NewPass("T", nil), name)
		if !errors.Is(err, ErrMalformedPort) {
			t.Fatalf("expected malformed reference error for %q; got %v", name, err)
		}
	}
	if err := g.AddPass(nil, "A"); err != ErrNilPass {
		t.Fatalf("expected ErrNilPass; got %v", err)
	}
	if len(g.Passes()) != 0 {
		t.Fatal("expected graph to remain empty")
	}
}

func TestAddPassStoresCopy(t *testing.T) {
	g := New("test")
	p := NewPass("GBufferRT", Options{"sampleCount": IntValue(16)})
	if err := g.AddPass(p, "GBufferRT"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPass(p, "GBufferRT2"); err != nil {
		t.Fatal(err)
	}

	p.Options["sampleCount"] = IntValue(1)
	stored, _ := g.Pass("GBufferRT")
	if got := stored.Options["sampleCount"].Int(); got != 16 {
		t.Fatalf("expected stored option to remain 16; got %d", got)
	}
	if p.Name != "" {
		t.Fatalf("expected caller pass instance to stay unnamed; got %q", p.Name)
	}
}

func TestAddEdgeUnknownPass(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "A")

	specs := []struct {
		src, dst string
		expPass  string
	}{
		{"A.out", "B.in", "B"},
		{"C.out", "A.in", "C"},
		{"C.out", "D.in", "C"},
	}

	for specIndex, spec := range specs {
		err := g.AddEdge(spec.src, spec.dst)
		var unkErr *UnknownPortError
		if !errors.As(err, &unkErr) {
			t.Fatalf("[spec %d] expected an UnknownPortError; got %v", specIndex, err)
		}
		if unkErr.Pass != spec.expPass || !errors.Is(err, ErrUnknownPort) {
			t.Fatalf("[spec %d] expected error for pass %q; got %v", specIndex, spec.expPass, err)
		}
	}

	if len(g.Edges()) != 0 {
		t.Fatalf("expected no edges to be registered; got %v", g.Edges())
	}
}

func TestAddEdgeMalformed(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "A", "B")

	specs := [][2]string{
		{"A.", "B.in"},
		{"A.out", ".in"},
		{"A.out.x", "B.in"},
		{"A.out", "B"},
		{"A", "B.in"},
	}
	for specIndex, spec := range specs {
		if err := g.AddEdge(spec[0], spec[1]); !errors.Is(err, ErrMalformedPort) {
			t.Fatalf("[spec %d] expected malformed reference error; got %v", specIndex, err)
		}
	}
	if len(g.Edges()) != 0 {
		t.Fatalf("expected no edges to be registered; got %v", g.Edges())
	}
}

func TestAddEdgePassDependency(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "A", "B")

	if err := g.AddEdge("A", "B"); err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("A", "B") {
		t.Fatal("expected execution dependency edge A -> B")
	}
	if !g.Edges()[0].Src.IsPassRef() {
		t.Fatal("expected edge source to be a pass reference")
	}
}

func TestEdgeOrderIndependence(t *testing.T) {
	edges := [][2]string{
		{"GBufferRT.posW", "PhotonReStir.WPos"},
		{"GBufferRT.normW", "PhotonReStir.WNormal"},
		{"GBufferRT.texC", "PhotonReStir.TexC"},
		{"GBufferRT.tangentW", "PhotonReStir.WTangent"},
		{"GBufferRT.viewW", "PhotonReStir.WView"},
	}

	build := func(order []int) *Graph {
		g := New("DefaultRenderGraph")
		mustAddPasses(t, g, "GBufferRT", "PhotonReStir")
		for _, idx := range order {
			if err := g.AddEdge(edges[idx][0], edges[idx][1]); err != nil {
				t.Fatal(err)
			}
		}
		return g
	}

	g1 := build([]int{0, 1, 2, 3, 4})
	g2 := build([]int{4, 2, 0, 3, 1, 2})

	if diff := cmp.Diff(g1.Edges(), g2.Edges()); diff != "" {
		t.Fatalf("edge sets differ (-g1 +g2):\n%s", diff)
	}
	if !g1.Equal(g2) {
		t.Fatal("expected graphs to be equal")
	}

	got := g1.Edges()
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].less(got[j]) }) {
		t.Fatalf("expected edges to be sorted; got %v", got)
	}
}

func TestMarkOutput(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "PhotonReStir")

	if err := g.MarkOutput("Missing.PhotonImage"); !errors.Is(err, ErrUnknownPort) {
		t.Fatalf("expected unknown port error; got %v", err)
	}
	if err := g.MarkOutput("PhotonReStir"); !errors.Is(err, ErrMalformedPort) {
		t.Fatalf("expected malformed reference error for pass-level output; got %v", err)
	}
	if len(g.Outputs()) != 0 {
		t.Fatalf("expected no outputs; got %v", g.Outputs())
	}

	for i := 0; i < 2; i++ {
		if err := g.MarkOutput("PhotonReStir.PhotonImage"); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.MarkOutput("PhotonReStir.Debug"); err != nil {
		t.Fatal(err)
	}

	expOutputs := []Port{{"PhotonReStir", "PhotonImage"}, {"PhotonReStir", "Debug"}}
	if diff := cmp.Diff(expOutputs, g.Outputs()); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}

	if err := g.UnmarkOutput("PhotonReStir.PhotonImage"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(expOutputs[1:], g.Outputs()); diff != "" {
		t.Fatalf("outputs mismatch after unmark (-want +got):\n%s", diff)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "A", "B")
	if err := g.AddEdge("A.out", "B.in"); err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveEdge("A.out", "B.in"); err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveEdge("A.out", "B.in"); err != nil {
		t.Fatalf("expected removing a missing edge to be a no-op; got %v", err)
	}
	if len(g.Edges()) != 0 {
		t.Fatalf("expected no edges; got %v", g.Edges())
	}
	if err := g.RemoveEdge("A.out", "C.in"); !errors.Is(err, ErrUnknownPort) {
		t.Fatalf("expected unknown port error; got %v", err)
	}
}

func TestTwoPassExample(t *testing.T) {
	g := New("example")
	mustAddPasses(t, g, "A", "B")
	if err := g.AddEdge("A.out", "B.in"); err != nil {
		t.Fatal(err)
	}
	if err := g.MarkOutput("B.out"); err != nil {
		t.Fatal(err)
	}

	if len(g.Passes()) != 2 || len(g.Edges()) != 1 || len(g.Outputs()) != 1 {
		t.Fatalf("expected 2 passes, 1 edge and 1 output; got %d, %d, %d", len(g.Passes()), len(g.Edges()), len(g.Outputs()))
	}

	expEdge := Edge{Src: Port{"A", "out"}, Dst: Port{"B", "in"}}
	if g.Edges()[0] != expEdge {
		t.Fatalf("expected edge %v; got %v", expEdge, g.Edges()[0])
	}

	if err := g.AddPass(NewPass("TypeA", nil), "A"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected re-registering A to fail; got %v", err)
	}
}

func TestGraphEqual(t *testing.T) {
	build := func(passOrder []string, opts Options) *Graph {
		g := New("g")
		for _, name := range passOrder {
			if err := g.AddPass(NewPass("T", opts), name); err != nil {
				t.Fatal(err)
			}
		}
		if err := g.AddEdge("A.out", "B.in"); err != nil {
			t.Fatal(err)
		}
		if err := g.MarkOutput("B.out"); err != nil {
			t.Fatal(err)
		}
		return g
	}

	g1 := build([]string{"A", "B"}, Options{"useAlphaTest": BoolValue(true)})
	g2 := build([]string{"B", "A"}, Options{"useAlphaTest": BoolValue(true)})
	g3 := build([]string{"A", "B"}, Options{"useAlphaTest": BoolValue(false)})

	if !g1.Equal(g2) {
		t.Fatal("expected pass registration order to be ignored")
	}
	if g1.Equal(g3) {
		t.Fatal("expected graphs with different options to differ")
	}
	if g1.Equal(nil) {
		t.Fatal("expected graph to differ from nil")
	}
}

func TestStats(t *testing.T) {
	g := New("test")
	mustAddPasses(t, g, "GBufferRT", "PhotonReStir")
	if err := g.AddEdge("GBufferRT.posW", "PhotonReStir.WPos"); err != nil {
		t.Fatal(err)
	}
	if err := g.MarkOutput("PhotonReStir.PhotonImage"); err != nil {
		t.Fatal(err)
	}

	stats := g.Stats()
	for _, exp := range []string{"GBufferRT", "PhotonReStir", "PhotonImage", "2 passes", "1 edges", "1 outputs"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected stats to contain %q; got:\n%s", exp, stats)
		}
	}
}
