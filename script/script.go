package script

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/passgraph/graph"
	"github.com/achilleasa/passgraph/types"
)

var (
	ErrBadWindowSize     = errors.New("script: window width and height must be positive")
	ErrCameraDegenerate  = errors.New("script: camera position and target coincide")
	ErrCameraUp          = errors.New("script: camera up vector is zero or parallel to the view direction")
	ErrCameraSpeed       = errors.New("script: camera speed must be positive")
	ErrFrameWithoutRate  = errors.New("script: clock frame requires a non-zero framerate")
	ErrNegativeClockTime = errors.New("script: clock time must be a finite non-negative number")
	ErrNoBaseFilename    = errors.New("script: frame capture base filename is empty")
	ErrUnnamedGraph      = errors.New("script: graph name is empty")
)

// Script mirrors a render host configuration script: the pass libraries to
// load, the render graphs, and the scene, window, clock and frame capture
// settings.
type Script struct {
	Libraries    []string     `yaml:"libraries,omitempty"`
	Graphs       []GraphDef   `yaml:"graphs,omitempty"`
	Scene        Scene        `yaml:"scene,omitempty"`
	Window       Window       `yaml:"window"`
	Clock        Clock        `yaml:"clock"`
	FrameCapture FrameCapture `yaml:"frameCapture"`
}

// GraphDef lists the passes, edges and outputs of a render graph in
// declaration order.
type GraphDef struct {
	Name    string    `yaml:"name"`
	Passes  []PassDef `yaml:"passes"`
	Edges   []EdgeDef `yaml:"edges,omitempty"`
	Outputs []string  `yaml:"outputs,omitempty"`
}

type PassDef struct {
	Name    string    `yaml:"name"`
	Type    string    `yaml:"type"`
	Options OptionMap `yaml:"options,omitempty"`
}

type EdgeDef struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}

// OptionMap holds pass options; it converts to graph.Options.
type OptionMap graph.Options

// Scene settings. An empty Path means the script does not load a scene.
type Scene struct {
	Path           string         `yaml:"path,omitempty"`
	RenderSettings RenderSettings `yaml:"renderSettings"`
	Camera         Camera         `yaml:"camera"`
	CameraSpeed    float32        `yaml:"cameraSpeed"`
}

type RenderSettings struct {
	UseEnvLight       bool `yaml:"useEnvLight"`
	UseAnalyticLights bool `yaml:"useAnalyticLights"`
	UseEmissiveLights bool `yaml:"useEmissiveLights"`
	UseVolumes        bool `yaml:"useVolumes"`
}

type Camera struct {
	Position types.Vec3 `yaml:"position,flow"`
	Target   types.Vec3 `yaml:"target,flow"`
	Up       types.Vec3 `yaml:"up,flow"`
}

type Window struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	UI     bool   `yaml:"ui"`
}

type Clock struct {
	Time      float64 `yaml:"time"`
	Framerate uint32  `yaml:"framerate"`

	// Start frame; only meaningful when Framerate is not zero.
	Frame *uint32 `yaml:"frame,omitempty"`
}

type FrameCapture struct {
	OutputDir    string `yaml:"outputDir"`
	BaseFilename string `yaml:"baseFilename"`
}

// Returns a script populated with the render host defaults.
func Defaults() *Script {
	return &Script{
		Scene: Scene{
			RenderSettings: RenderSettings{
				UseEnvLight:       true,
				UseAnalyticLights: true,
				UseEmissiveLights: true,
				UseVolumes:        true,
			},
			Camera: Camera{
				Target: types.XYZ(0, 0, -1),
				Up:     types.XYZ(0, 1, 0),
			},
			CameraSpeed: 1.0,
		},
		Window: Window{
			Width:  1920,
			Height: 1080,
			UI:     true,
		},
		FrameCapture: FrameCapture{
			OutputDir:    ".",
			BaseFilename: "Mogwai",
		},
	}
}

// Validate the non-graph settings and the graph names. Graph structure is
// validated when the graphs are built.
func (sc *Script) Validate() error {
	if sc.Window.Width == 0 || sc.Window.Height == 0 {
		return ErrBadWindowSize
	}

	if sc.Scene.Path != "" {
		cam := sc.Scene.Camera
		viewDir := cam.Target.Sub(cam.Position)
		if viewDir.IsZero() {
			return ErrCameraDegenerate
		}
		if cam.Up.IsZero() || viewDir.Normalize().Cross(cam.Up.Normalize()).IsZero() {
			return ErrCameraUp
		}
		if sc.Scene.CameraSpeed <= 0 {
			return ErrCameraSpeed
		}
	}

	if !(sc.Clock.Time >= 0) || math.IsInf(sc.Clock.Time, 1) {
		return ErrNegativeClockTime
	}
	if sc.Clock.Frame != nil && sc.Clock.Framerate == 0 {
		return ErrFrameWithoutRate
	}
	if sc.FrameCapture.BaseFilename == "" {
		return ErrNoBaseFilename
	}

	seen := make(map[string]struct{}, len(sc.Graphs))
	for _, gd := range sc.Graphs {
		if gd.Name == "" {
			return ErrUnnamedGraph
		}
		if _, exists := seen[gd.Name]; exists {
			return fmt.Errorf("script: duplicate graph name %q", gd.Name)
		}
		seen[gd.Name] = struct{}{}
	}
	return nil
}

// Lookup a graph definition by name.
func (sc *Script) Graph(name string) (*GraphDef, bool) {
	for i := range sc.Graphs {
		if sc.Graphs[i].Name == name {
			return &sc.Graphs[i], true
		}
	}
	return nil, false
}
