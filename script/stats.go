package script

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular summary of the script settings and graph definitions.
func (sc *Script) Stats() string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Setting", "Value"})

	table.Append([]string{"Libraries", fmt.Sprintf("%d", len(sc.Libraries))})
	if sc.Scene.Path == "" {
		table.Append([]string{"Scene", "-"})
	} else {
		s := sc.Scene
		rs := s.RenderSettings
		var lights []string
		for _, l := range []struct {
			name string
			on   bool
		}{
			{"env", rs.UseEnvLight},
			{"analytic", rs.UseAnalyticLights},
			{"emissive", rs.UseEmissiveLights},
			{"volumes", rs.UseVolumes},
		} {
			if l.on {
				lights = append(lights, l.name)
			}
		}
		if len(lights) == 0 {
			lights = append(lights, "none")
		}

		table.Append([]string{"Scene", s.Path})
		table.Append([]string{"Render settings", strings.Join(lights, ", ")})
		table.Append([]string{"Camera position", s.Camera.Position.Float3()})
		table.Append([]string{"Camera target", s.Camera.Target.Float3()})
		table.Append([]string{"Camera up", s.Camera.Up.Float3()})
		table.Append([]string{"Camera speed", fmt.Sprintf("%g", s.CameraSpeed)})
	}
	table.Append([]string{"Window", fmt.Sprintf("%dx%d (ui: %t)", sc.Window.Width, sc.Window.Height, sc.Window.UI)})

	clock := fmt.Sprintf("time: %g, framerate: %d", sc.Clock.Time, sc.Clock.Framerate)
	if sc.Clock.Frame != nil {
		clock += fmt.Sprintf(", frame: %d", *sc.Clock.Frame)
	}
	table.Append([]string{"Clock", clock})
	table.Append([]string{"Frame capture", fmt.Sprintf("%s/%s", sc.FrameCapture.OutputDir, sc.FrameCapture.BaseFilename)})
	for _, gd := range sc.Graphs {
		table.Append([]string{"Graph " + gd.Name, fmt.Sprintf("%d passes, %d edges, %d outputs", len(gd.Passes), len(gd.Edges), len(gd.Outputs))})
	}

	table.Render()
	return buf.String()
}
