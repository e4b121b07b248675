package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/passgraph/log"
	"github.com/achilleasa/passgraph/script"
	"github.com/urfave/cli"
)

const testdataDir = "../script/testdata"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	level := log.GetLevel()
	log.SetSink(&buf)
	defer func() {
		log.SetSink(os.Stderr)
		log.SetLevel(level)
	}()

	app := cli.NewApp()
	app.Writer = &buf
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v"},
		cli.BoolFlag{Name: "vv"},
		cli.StringFlag{Name: "log-level"},
	}
	app.Commands = []cli.Command{
		{Name: "validate", Flags: []cli.Flag{cli.BoolFlag{Name: "strict"}}, Action: ValidateScripts},
		{Name: "info", Action: ShowScriptInfo},
		{Name: "convert", Flags: []cli.Flag{cli.StringFlag{Name: "out, o"}}, Action: ConvertScript},
		{Name: "list-passes", Action: ListPasses},
	}

	err := app.Run(append([]string{"passgraph"}, args...))
	return buf.String(), err
}

func TestValidateScript(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer log.SetSink(os.Stderr)

	specs := []struct {
		file   string
		strict bool
		expOK  bool
	}{
		// PhotonReStir only declares the WPos and WNormal inputs
		{"photon_restir.py", false, true},
		{"photon_restir.py", true, false},
		{"graph_only.py", true, true},
		{"photon_mapper.yaml", true, true},
		// PTGBuffer has no "Output" port; only fatal in strict mode
		{"ptgbuffer.py", false, true},
		{"ptgbuffer.py", true, false},
	}

	for specIndex, spec := range specs {
		ok, err := validateScript(filepath.Join(testdataDir, spec.file), spec.strict)
		if err != nil {
			t.Fatalf("[spec %d] %v", specIndex, err)
		}
		if ok != spec.expOK {
			t.Fatalf("[spec %d] expected validation result %t; got %t\n%s", specIndex, spec.expOK, ok, buf.String())
		}
	}

	for _, exp := range []string{
		`PTGBuffer.Output: PTGBuffer has no output named "Output"`,
		`GBufferRT.texC -> PhotonReStir.TexC: PhotonReStir has no input named "TexC"`,
		`GBufferRT.viewW -> PhotonReStir.WView: PhotonReStir has no input named "WView"`,
	} {
		if !strings.Contains(buf.String(), exp) {
			t.Fatalf("expected lint error %q to be logged; got:\n%s", exp, buf.String())
		}
	}
}

func TestValidateScripts(t *testing.T) {
	out, err := runApp(t, "validate", "--strict",
		filepath.Join(testdataDir, "graph_only.py"),
		filepath.Join(testdataDir, "photon_mapper.yaml"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, ": ok (1 graph(s))") != 2 {
		t.Fatalf("expected both scripts to validate; got:\n%s", out)
	}

	expError := "missing script file(s)"
	if _, err = runApp(t, "validate"); err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}
}

func TestValidateScriptErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer log.SetSink(os.Stderr)

	dir := t.TempDir()
	badGraph := filepath.Join(dir, "dup.yaml")
	payload := "graphs:\n  - name: g\n    passes:\n      - {name: A, type: T}\n      - {name: A, type: T}\n"
	if err := os.WriteFile(badGraph, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	badWindow := filepath.Join(dir, "window.yaml")
	if err := os.WriteFile(badWindow, []byte("window: {width: 0}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	specs := []struct {
		file     string
		expError string
	}{
		{badGraph, `graph "g": add pass "A": graph: pass "A" is already registered`},
		{badWindow, script.ErrBadWindowSize.Error()},
		{filepath.Join(dir, "missing.py"), "no such file or directory"},
	}

	for specIndex, spec := range specs {
		ok, err := validateScript(spec.file, false)
		if ok || err == nil || !strings.Contains(err.Error(), spec.expError) {
			t.Fatalf("[spec %d] expected error containing %q; got %t, %v", specIndex, spec.expError, ok, err)
		}
	}
}

func TestShowScriptInfo(t *testing.T) {
	out, err := runApp(t, "info", filepath.Join(testdataDir, "photon_restir.py"))
	if err != nil {
		t.Fatal(err)
	}

	for _, exp := range []string{"script information", "Arcade/Arcade.pyscene", `graph "DefaultRenderGraph"`, "PhotonReStir"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected output to contain %q; got:\n%s", exp, out)
		}
	}

	expError := "missing script file"
	if _, err = runApp(t, "info"); err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}
}

func TestConvertScript(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "photon_restir.yaml")
	if _, err := runApp(t, "convert", "--out", outFile, filepath.Join(testdataDir, "photon_restir.py")); err != nil {
		t.Fatal(err)
	}

	sc, err := script.ReadScript(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Graphs) != 1 || len(sc.Graphs[0].Edges) != 10 {
		t.Fatalf("expected converted script to contain the graph with 10 edges; got %+v", sc.Graphs)
	}

	badWindow := filepath.Join(t.TempDir(), "window.yaml")
	if err = os.WriteFile(badWindow, []byte("window: {width: 0}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	badOut := filepath.Join(t.TempDir(), "window.py")
	if _, err = runApp(t, "convert", "--out", badOut, badWindow); err != script.ErrBadWindowSize {
		t.Fatalf("expected to get %v; got %v", script.ErrBadWindowSize, err)
	}
	if _, err = os.Stat(badOut); !os.IsNotExist(err) {
		t.Fatalf("expected no output to be written for an invalid script; got %v", err)
	}

	expError := "missing output file; use --out"
	if _, err = runApp(t, "convert", filepath.Join(testdataDir, "photon_restir.py")); err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}
}

func TestListPasses(t *testing.T) {
	out, err := runApp(t, "-v", "list-passes")
	if err != nil {
		t.Fatal(err)
	}
	for _, exp := range []string{"PTGBuffer.dll", "PhotonMapperStochasticHash", "WPos?"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected output to contain %q; got:\n%s", exp, out)
		}
	}
}

func TestLogLevelFlag(t *testing.T) {
	out, err := runApp(t, "--log-level", "chatty", "list-passes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `ignoring --log-level: log: unknown level "chatty"`) {
		t.Fatalf("expected a warning about the log level; got:\n%s", out)
	}
}
