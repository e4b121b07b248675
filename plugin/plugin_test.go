package plugin

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLibraryName(t *testing.T) {
	specs := map[string]string{
		"PTGBuffer":     "PTGBuffer.dll",
		"PTGBuffer.dll": "PTGBuffer.dll",
		" GBuffer.DLL ": "GBuffer.DLL",
		"":              "",
	}
	for in, exp := range specs {
		if got := LibraryName(in); got != exp {
			t.Fatalf("expected LibraryName(%q) to be %q; got %q", in, exp, got)
		}
	}
}

func TestCatalogRegister(t *testing.T) {
	c := NewCatalog()
	lib := &Library{Name: "Foo", Types: []*Type{{Name: "FooPass"}}}
	if err := c.Register(lib); err != nil {
		t.Fatal(err)
	}
	if lib.Types[0].Library != "Foo.dll" {
		t.Fatalf("expected pass type to be stamped with library name; got %q", lib.Types[0].Library)
	}

	expError := `plugin: library "Foo.dll" already registered`
	if err := c.Register(&Library{Name: "Foo.dll"}); err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}
	if err := c.Register(&Library{}); err != ErrEmptyLibraryName {
		t.Fatalf("expected ErrEmptyLibraryName; got %v", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	lib, exists := c.Library("PhotonReStir.dll")
	if !exists {
		t.Fatal("expected PhotonReStir library to be catalogued")
	}
	pt := lib.Types[0]
	if _, ok := pt.Output("PhotonImage"); !ok {
		t.Fatal("expected PhotonReStir to expose a PhotonImage output")
	}
	if ch, ok := pt.Input("WPos"); !ok || !ch.Optional {
		t.Fatalf("expected optional WPos input; got %+v (found: %t)", ch, ok)
	}
	if _, ok := pt.Input("PhotonImage"); ok {
		t.Fatal("expected PhotonImage not to be an input")
	}

	var inputs []string
	for _, ch := range pt.Inputs {
		inputs = append(inputs, ch.Name)
	}
	if diff := cmp.Diff([]string{"WPos", "WNormal"}, inputs); diff != "" {
		t.Fatalf("PhotonReStir input mismatch (-want +got):\n%s", diff)
	}

	stats := c.Stats()
	for _, exp := range []string{"GBuffer.dll", "GBufferRT", "PTGBuffer", "WPos?"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected catalog stats to contain %q; got:\n%s", exp, stats)
		}
	}
}

func TestLoader(t *testing.T) {
	l := NewLoader(DefaultCatalog())
	for _, name := range []string{"PhotonReStir.dll", "ErrorMeasurePass.dll", "GBuffer", "PhotonReStir"} {
		if err := l.LoadLibrary(name); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.LoadLibrary("  "); err != ErrEmptyLibraryName {
		t.Fatalf("expected ErrEmptyLibraryName; got %v", err)
	}

	expLoaded := []string{"PhotonReStir.dll", "ErrorMeasurePass.dll", "GBuffer.dll"}
	if diff := cmp.Diff(expLoaded, l.Loaded()); diff != "" {
		t.Fatalf("loaded libraries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ErrorMeasurePass.dll"}, l.Opaque()); diff != "" {
		t.Fatalf("opaque libraries mismatch (-want +got):\n%s", diff)
	}

	for _, typ := range []string{"PhotonReStir", "GBufferRT", "VBufferRT"} {
		if _, ok := l.Lookup(typ); !ok {
			t.Fatalf("expected pass type %q to resolve", typ)
		}
	}
	if _, ok := l.Lookup("PTGBuffer"); ok {
		t.Fatal("expected PTGBuffer not to resolve before its library is loaded")
	}
}

func TestNilCatalogLoader(t *testing.T) {
	l := NewLoader(nil)
	if err := l.LoadLibrary("PTGBuffer.dll"); err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Lookup("PTGBuffer"); ok {
		t.Fatal("expected lookups to fail without a catalog")
	}
	if len(l.Opaque()) != 1 {
		t.Fatalf("expected library to be opaque; got %v", l.Opaque())
	}
}
