package script

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/passgraph/asset"
	"github.com/achilleasa/passgraph/graph"
	"github.com/achilleasa/passgraph/log"
	"github.com/achilleasa/passgraph/plugin"
	"github.com/achilleasa/passgraph/types"
)

// Prefixes of statements that do not affect the script model.
var ignoredPrefixes = []string{
	"from ", "import ", "def ", "return", "m.addGraph(", "try:", "except",
}

type mogwaiScriptReader struct {
	logger log.Logger

	sc *Script

	// The graph being defined and the variable it is bound to.
	curGraph *GraphDef
	graphVar string

	// Pass instances created by createPass keyed by variable name.
	passVars map[string]PassDef

	// Libraries already recorded.
	libSeen map[string]struct{}
}

func newMogwaiScriptReader() *mogwaiScriptReader {
	return &mogwaiScriptReader{
		logger:   log.New("mogwai script reader"),
		sc:       Defaults(),
		passVars: make(map[string]PassDef),
		libSeen:  make(map[string]struct{}),
	}
}

// Read a script written in the render host's python dialect.
func (r *mogwaiScriptReader) Read(res *asset.Resource) (*Script, error) {
	r.logger.Noticef(`parsing script from "%s"`, res.Path())
	start := time.Now()

	var lineNum int
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || isIgnored(line) {
			continue
		}

		if err := r.parseStatement(line); err != nil {
			return nil, fmt.Errorf("[%s: %d] error: %s", res.Path(), lineNum, err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	r.closeGraph()

	r.logger.Noticef("parsed script in %d ms", time.Since(start).Nanoseconds()/1e6)
	return r.sc, nil
}

func isIgnored(line string) bool {
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	// Graph factory invocations, e.g. "DefaultRenderGraph = render_graph_DefaultRenderGraph()"
	if _, rhs, ok := splitAssignment(line); ok && strings.HasPrefix(strings.TrimSpace(rhs), "render_graph_") {
		return true
	}
	return false
}

// Split "target = rhs" statements. Comparisons are not assignments.
func splitAssignment(line string) (target, rhs string, ok bool) {
	p := &exprParser{src: line}
	p.skipSpace()
	target = p.parseAtom()
	if target == "" {
		return "", "", false
	}
	p.skipSpace()
	if p.peek() != '=' || strings.HasPrefix(line[p.pos:], "==") {
		return "", "", false
	}
	return target, line[p.pos+1:], true
}

func (r *mogwaiScriptReader) parseStatement(line string) error {
	if target, rhs, ok := splitAssignment(line); ok {
		val, err := parseExpr(rhs)
		if err != nil {
			return err
		}
		return r.assign(target, val)
	}

	stmt, err := parseExpr(line)
	if err != nil {
		return err
	}
	if stmt.kind != exprCall {
		return fmt.Errorf("unsupported statement %q", line)
	}
	return r.call(stmt)
}

func (r *mogwaiScriptReader) assign(target string, val expr) error {
	switch {
	case !strings.Contains(target, "."):
		return r.assignVar(target, val)
	case target == "m.scene.renderSettings":
		return r.parseRenderSettings(val)
	case strings.HasPrefix(target, "m.scene.camera."):
		v, err := parseFloat3(val)
		if err != nil {
			return err
		}
		switch strings.TrimPrefix(target, "m.scene.camera.") {
		case "position":
			r.sc.Scene.Camera.Position = v
		case "target":
			r.sc.Scene.Camera.Target = v
		case "up":
			r.sc.Scene.Camera.Up = v
		default:
			return fmt.Errorf("unsupported camera property %q", target)
		}
	case target == "m.scene.cameraSpeed":
		f, err := parseFloatAtom(val, 32)
		if err != nil {
			return err
		}
		r.sc.Scene.CameraSpeed = float32(f)
	case target == "m.ui":
		b, err := parseBoolAtom(val)
		if err != nil {
			return err
		}
		r.sc.Window.UI = b
	case target == "m.clock.time":
		f, err := parseFloatAtom(val, 64)
		if err != nil {
			return err
		}
		r.sc.Clock.Time = f
	case target == "m.clock.framerate":
		n, err := parseUintAtom(val)
		if err != nil {
			return err
		}
		r.sc.Clock.Framerate = n
	case target == "m.clock.frame":
		n, err := parseUintAtom(val)
		if err != nil {
			return err
		}
		r.sc.Clock.Frame = &n
	case target == "m.frameCapture.outputDir":
		s, err := parseStringExpr(val)
		if err != nil {
			return err
		}
		r.sc.FrameCapture.OutputDir = s
	case target == "m.frameCapture.baseFilename":
		s, err := parseStringExpr(val)
		if err != nil {
			return err
		}
		r.sc.FrameCapture.BaseFilename = s
	default:
		return fmt.Errorf("unsupported assignment to %q", target)
	}
	return nil
}

// Handle "g = RenderGraph('name')" and "pass = createPass('Type', {...})".
func (r *mogwaiScriptReader) assignVar(name string, val expr) error {
	if val.kind != exprCall {
		return fmt.Errorf("unsupported assignment to %q", name)
	}

	switch val.text {
	case "RenderGraph":
		graphName, err := stringArgs(val, 1)
		if err != nil {
			return err
		}
		r.closeGraph()
		r.curGraph = &GraphDef{Name: graphName[0]}
		r.graphVar = name
		r.passVars = make(map[string]PassDef)
	case "createPass":
		if len(val.args) < 1 || len(val.args) > 2 || len(val.kwargs) != 0 {
			return fmt.Errorf("createPass expects a pass type and an optional option dictionary")
		}
		passType, err := parseStringExpr(val.args[0])
		if err != nil {
			return err
		}
		pd := PassDef{Type: passType}
		if len(val.args) == 2 {
			if pd.Options, err = parseOptions(val.args[1]); err != nil {
				return err
			}
		}
		r.passVars[name] = pd
	default:
		return fmt.Errorf("unsupported call to %s", val.text)
	}
	return nil
}

func (r *mogwaiScriptReader) call(stmt expr) error {
	switch stmt.text {
	case "loadRenderPassLibrary":
		args, err := stringArgs(stmt, 1)
		if err != nil {
			return err
		}
		// "X" and "X.dll" name the same library
		key := plugin.LibraryName(args[0])
		if key == "" {
			return plugin.ErrEmptyLibraryName
		}
		if _, exists := r.libSeen[key]; !exists {
			r.libSeen[key] = struct{}{}
			r.sc.Libraries = append(r.sc.Libraries, args[0])
		}
		return nil
	case "m.loadScene":
		args, err := stringArgs(stmt, 1)
		if err != nil {
			return err
		}
		r.sc.Scene.Path = args[0]
		return nil
	case "m.resizeSwapChain":
		if len(stmt.args) != 2 || len(stmt.kwargs) != 0 {
			return fmt.Errorf("resizeSwapChain expects width and height")
		}
		w, err := parseUintAtom(stmt.args[0])
		if err != nil {
			return err
		}
		h, err := parseUintAtom(stmt.args[1])
		if err != nil {
			return err
		}
		r.sc.Window.Width, r.sc.Window.Height = w, h
		return nil
	}

	// Graph methods
	recv, method, found := strings.Cut(stmt.text, ".")
	if !found || r.curGraph == nil || recv != r.graphVar {
		return fmt.Errorf("unsupported call to %s", stmt.text)
	}

	switch method {
	case "addPass":
		if len(stmt.args) != 2 || stmt.args[0].kind != exprAtom {
			return fmt.Errorf("addPass expects a pass variable and a name")
		}
		pd, exists := r.passVars[stmt.args[0].text]
		if !exists {
			return fmt.Errorf("undefined pass variable %q", stmt.args[0].text)
		}
		name, err := parseStringExpr(stmt.args[1])
		if err != nil {
			return err
		}
		pd.Name = name
		r.curGraph.Passes = append(r.curGraph.Passes, pd)
	case "addEdge":
		args, err := stringArgs(stmt, 2)
		if err != nil {
			return err
		}
		r.curGraph.Edges = append(r.curGraph.Edges, EdgeDef{Src: args[0], Dst: args[1]})
	case "markOutput":
		args, err := stringArgs(stmt, 1)
		if err != nil {
			return err
		}
		r.curGraph.Outputs = append(r.curGraph.Outputs, args[0])
	default:
		return fmt.Errorf("unsupported graph method %q", method)
	}
	return nil
}

// Append the graph being defined to the script.
func (r *mogwaiScriptReader) closeGraph() {
	if r.curGraph == nil {
		return
	}
	r.sc.Graphs = append(r.sc.Graphs, *r.curGraph)
	r.curGraph = nil
	r.graphVar = ""
}

func (r *mogwaiScriptReader) parseRenderSettings(val expr) error {
	if val.kind != exprCall || val.text != "SceneRenderSettings" || len(val.args) != 0 {
		return fmt.Errorf("expected SceneRenderSettings(...) with keyword arguments")
	}

	rs := &r.sc.Scene.RenderSettings
	for _, kw := range val.kwargs {
		b, err := parseBoolAtom(kw.value)
		if err != nil {
			return err
		}
		switch kw.key {
		case "useEnvLight":
			rs.UseEnvLight = b
		case "useAnalyticLights":
			rs.UseAnalyticLights = b
		case "useEmissiveLights":
			rs.UseEmissiveLights = b
		case "useVolumes":
			rs.UseVolumes = b
		default:
			return fmt.Errorf("unsupported render setting %q", kw.key)
		}
	}
	return nil
}

func parseOptions(val expr) (OptionMap, error) {
	if val.kind != exprDict {
		return nil, fmt.Errorf("expected an option dictionary; got %s", val)
	}

	opts := make(OptionMap, len(val.entries))
	for _, kv := range val.entries {
		// float('inf') and friends
		if kv.value.kind == exprCall && kv.value.text == "float" && len(kv.value.args) == 1 && kv.value.args[0].kind == exprString {
			f, err := strconv.ParseFloat(kv.value.args[0].text, 64)
			if err != nil {
				return nil, fmt.Errorf("option %q: unsupported value %s", kv.key, kv.value)
			}
			opts[kv.key] = graph.FloatValue(f)
			continue
		}
		if kv.value.kind != exprAtom {
			return nil, fmt.Errorf("option %q: unsupported value %s", kv.key, kv.value)
		}
		v, err := graph.ParseValue(kv.value.text)
		if err != nil {
			return nil, fmt.Errorf("option %q: %s", kv.key, err.Error())
		}
		opts[kv.key] = v
	}
	return opts, nil
}

func stringArgs(call expr, count int) ([]string, error) {
	if len(call.args) != count || len(call.kwargs) != 0 {
		return nil, fmt.Errorf("%s expects %d string argument(s); got %d", call.text, count, len(call.args)+len(call.kwargs))
	}
	out := make([]string, count)
	for i, arg := range call.args {
		s, err := parseStringExpr(arg)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func parseStringExpr(val expr) (string, error) {
	if val.kind != exprString {
		return "", fmt.Errorf("expected a string literal; got %s", val)
	}
	return val.text, nil
}

func parseFloat3(val expr) (types.Vec3, error) {
	if val.kind != exprCall || val.text != "float3" || len(val.args) != 3 {
		return types.Vec3{}, fmt.Errorf("expected float3(x, y, z); got %s", val)
	}
	var v types.Vec3
	for i, arg := range val.args {
		f, err := parseFloatAtom(arg, 32)
		if err != nil {
			return types.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseFloatAtom(val expr, bitSize int) (float64, error) {
	if val.kind != exprAtom {
		return 0, fmt.Errorf("expected a number; got %s", val)
	}
	return strconv.ParseFloat(val.text, bitSize)
}

func parseUintAtom(val expr) (uint32, error) {
	if val.kind != exprAtom {
		return 0, fmt.Errorf("expected an unsigned integer; got %s", val)
	}
	n, err := strconv.ParseUint(val.text, 10, 32)
	return uint32(n), err
}

func parseBoolAtom(val expr) (bool, error) {
	if val.kind == exprAtom {
		switch val.text {
		case "True":
			return true, nil
		case "False":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected True or False; got %s", val)
}
