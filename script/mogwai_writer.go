package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/achilleasa/passgraph/graph"
)

// mogwaiScriptWriter emits scripts in the layout produced by the render
// host's own script exporter.
type mogwaiScriptWriter struct{}

func (w *mogwaiScriptWriter) Write(sc *Script, out io.Writer) error {
	bw := bufio.NewWriter(out)

	fmt.Fprintln(bw, "# Graphs")
	fmt.Fprintln(bw, "from falcor import *")
	fmt.Fprintln(bw)
	for _, gd := range sc.Graphs {
		writeGraph(bw, sc.Libraries, gd)
	}

	if sc.Scene.Path != "" {
		s := sc.Scene
		rs := s.RenderSettings
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "# Scene")
		fmt.Fprintf(bw, "m.loadScene(%s)\n", quote(s.Path))
		fmt.Fprintf(bw, "m.scene.renderSettings = SceneRenderSettings(useEnvLight=%s, useAnalyticLights=%s, useEmissiveLights=%s, useVolumes=%s)\n",
			pyBool(rs.UseEnvLight), pyBool(rs.UseAnalyticLights), pyBool(rs.UseEmissiveLights), pyBool(rs.UseVolumes))
		fmt.Fprintf(bw, "m.scene.camera.position = %s\n", s.Camera.Position.Float3())
		fmt.Fprintf(bw, "m.scene.camera.target = %s\n", s.Camera.Target.Float3())
		fmt.Fprintf(bw, "m.scene.camera.up = %s\n", s.Camera.Up.Float3())
		fmt.Fprintf(bw, "m.scene.cameraSpeed = %s\n", graph.FloatValue(float64(s.CameraSpeed)).String())
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "# Window Configuration")
	fmt.Fprintf(bw, "m.resizeSwapChain(%d, %d)\n", sc.Window.Width, sc.Window.Height)
	fmt.Fprintf(bw, "m.ui = %s\n", pyBool(sc.Window.UI))

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "# Clock Settings")
	fmt.Fprintf(bw, "m.clock.time = %s\n", strconv.FormatFloat(sc.Clock.Time, 'g', -1, 64))
	fmt.Fprintf(bw, "m.clock.framerate = %d\n", sc.Clock.Framerate)
	if sc.Clock.Frame != nil {
		fmt.Fprintf(bw, "m.clock.frame = %d\n", *sc.Clock.Frame)
	} else {
		fmt.Fprintln(bw, "# If framerate is not zero, you can use the frame property to set the start frame")
		fmt.Fprintln(bw, "# m.clock.frame = 0")
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "# Frame Capture")
	fmt.Fprintf(bw, "m.frameCapture.outputDir = %s\n", quote(sc.FrameCapture.OutputDir))
	fmt.Fprintf(bw, "m.frameCapture.baseFilename = %s\n", quote(sc.FrameCapture.BaseFilename))

	return bw.Flush()
}

func writeGraph(w io.Writer, libraries []string, gd GraphDef) {
	fn := "render_graph_" + pyIdent(gd.Name)
	fmt.Fprintf(w, "def %s():\n", fn)
	fmt.Fprintf(w, "    g = RenderGraph(%s)\n", quote(gd.Name))
	for _, lib := range libraries {
		fmt.Fprintf(w, "    loadRenderPassLibrary(%s)\n", quote(lib))
	}
	for _, pd := range gd.Passes {
		v := pyIdent(pd.Name)
		if len(pd.Options) == 0 {
			fmt.Fprintf(w, "    %s = createPass(%s)\n", v, quote(pd.Type))
		} else {
			fmt.Fprintf(w, "    %s = createPass(%s, %s)\n", v, quote(pd.Type), graph.Options(pd.Options))
		}
		fmt.Fprintf(w, "    g.addPass(%s, %s)\n", v, quote(pd.Name))
	}
	for _, ed := range gd.Edges {
		fmt.Fprintf(w, "    g.addEdge(%s, %s)\n", quote(ed.Src), quote(ed.Dst))
	}
	for _, out := range gd.Outputs {
		fmt.Fprintf(w, "    g.markOutput(%s)\n", quote(out))
	}
	fmt.Fprintln(w, "    return g")
	fmt.Fprintf(w, "m.addGraph(%s())\n", fn)
}

func pyBool(b bool) string {
	return graph.BoolValue(b).String()
}

// Turn a name into a python identifier; "g" is reserved for the graph variable.
func pyIdent(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	ident := sb.String()
	if ident == "" || ident == "g" || ident == "m" {
		ident = "_" + ident
	}
	return ident
}
