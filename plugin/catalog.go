package plugin

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const (
	fmtRGBA32Float = "RGBA32Float"
	fmtRG32Float   = "RG32Float"
	fmtR32Float    = "R32Float"
	fmtRG32Uint    = "RG32Uint"
	fmtRGBA32Uint  = "RGBA32Uint"
)

var photonReStirInputs = []Channel{
	{Name: "WPos", Texture: "gWPos", Desc: "World position", Optional: true},
	{Name: "WNormal", Texture: "gWNormals", Desc: "World normals", Optional: true},
}

var photonMapperInputs = []Channel{
	{Name: "vbuffer", Texture: "gVBuffer", Desc: "V buffer to get the intersected triangle"},
	{Name: "viewW", Texture: "gViewWorld", Desc: "World view direction"},
	{Name: "thpMatID", Texture: "gThpMatID", Desc: "Throughput and material id(w)"},
	{Name: "emissive", Texture: "gEmissive", Desc: "Emissive"},
}

var photonImageOutput = []Channel{
	{Name: "PhotonImage", Texture: "gPhotonImage", Desc: "Caustics and indirect light from global photons", Format: fmtRGBA32Float},
}

// Returns a catalog with the reflection data of the project passes and the
// stock passes they are commonly wired to.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, lib := range defaultLibraries() {
		if err := c.Register(lib); err != nil {
			panic(err)
		}
	}
	return c
}

func defaultLibraries() []*Library {
	return []*Library{
		{
			Name: "PTGBuffer",
			Types: []*Type{{
				Name: "PTGBuffer",
				Desc: "A GBuffer that traces until it reaches a diffuse surface",
				Outputs: []Channel{
					{Name: "posW", Texture: "gPosW", Desc: "World space position", Format: fmtRGBA32Float},
					{Name: "normW", Texture: "gNormW", Desc: "World space normal", Format: fmtRGBA32Float},
					{Name: "tangentW", Texture: "gTangentW", Desc: "World space tangent", Format: fmtRGBA32Float},
					{Name: "texC", Texture: "gTexC", Desc: "Texture coordinates", Format: fmtRGBA32Float},
					{Name: "viewW", Texture: "gViewWorld", Desc: "World view direction", Format: fmtRGBA32Float},
					{Name: "faceNormal", Texture: "gFaceNormal", Desc: "Normal for the face", Format: fmtRGBA32Float},
					{Name: "throughputMatID", Texture: "gThpMatID", Desc: "Throughput and material id(w)", Format: fmtRGBA32Float},
					{Name: "emissive", Texture: "gEmissive", Desc: "Emissive color", Format: fmtRGBA32Float},
				},
			}},
		},
		{
			Name: "PTVBuffer",
			Types: []*Type{{
				Name: "PTVBuffer",
				Desc: "A VBuffer that traces until it reaches a diffuse surface",
				Outputs: []Channel{
					{Name: "vbuffer", Texture: "gVBuffer", Desc: "V-Buffer in packed format (indices + barycentrics)", Format: fmtRGBA32Uint},
					{Name: "viewW", Texture: "gViewWorld", Desc: "World view direction", Format: fmtRGBA32Float},
					{Name: "throughput", Texture: "gThp", Desc: "Throughput for transparent materials", Format: fmtRGBA32Float},
					{Name: "emissive", Texture: "gEmissive", Desc: "Emissive color", Format: fmtRGBA32Float},
					{Name: "depth", Texture: "gDepth", Desc: "Depth buffer (NDC)", Optional: true, Format: fmtR32Float},
					{Name: "mvec", Texture: "gMotionVector", Desc: "Motion vector", Optional: true, Format: fmtRG32Float},
				},
			}},
		},
		{
			Name: "PhotonReStir",
			Types: []*Type{{
				Name:    "PhotonReStir",
				Desc:    "Shoots photons and then gathers them",
				Inputs:  photonReStirInputs,
				Outputs: photonImageOutput,
			}},
		},
		{
			Name: "PhotonMapper",
			Types: []*Type{{
				Name:    "PhotonMapper",
				Desc:    "A photon mapper with full RTX support",
				Inputs:  photonMapperInputs,
				Outputs: photonImageOutput,
			}},
		},
		{
			Name: "PhotonMapperStochasticHash",
			Types: []*Type{{
				Name:    "PhotonMapperStochasticHash",
				Desc:    "A photon mapper using a stochastic spatial hash",
				Inputs:  photonMapperInputs,
				Outputs: photonImageOutput,
			}},
		},
		{
			Name: "GeneratePhotons",
			Types: []*Type{{
				Name: "GeneratePhotons",
				Desc: "Generates an AABB buffer with caustic photons and a point light buffer for global photons",
				Outputs: []Channel{
					{Name: "CausticAABB", Texture: "gOutAABB", Desc: "AABB buffer of caustic photons"},
					{Name: "CausticPInfo", Texture: "gOutCaustic", Desc: "Caustic info, same index as CausticAABB"},
					{Name: "GlobalPInfo", Texture: "gOutGlobal", Desc: "Global photon info buffer"},
				},
			}},
		},
		{
			Name: "GBuffer",
			Types: []*Type{
				{
					Name:    "GBufferRT",
					Desc:    "Ray traced G-buffer generation pass",
					Outputs: gbufferOutputs(),
				},
				{
					Name:    "GBufferRaster",
					Desc:    "Rasterized G-buffer generation pass",
					Inputs:  []Channel{{Name: "depth", Texture: "gDepth", Desc: "Pre-initialized depth buffer", Optional: true}},
					Outputs: gbufferOutputs(),
				},
				{
					Name: "VBufferRT",
					Desc: "Ray traced V-buffer generation pass",
					Outputs: []Channel{
						{Name: "vbuffer", Texture: "gVBuffer", Desc: "Visibility buffer in packed format", Format: fmtRG32Uint},
						{Name: "depth", Texture: "gDepth", Desc: "Depth buffer (NDC)", Optional: true, Format: fmtR32Float},
						{Name: "mvec", Texture: "gMotionVector", Desc: "Motion vector", Optional: true, Format: fmtRG32Float},
						{Name: "viewW", Texture: "gViewW", Desc: "View direction in world space", Optional: true, Format: fmtRGBA32Float},
					},
				},
			},
		},
		{
			Name: "AccumulatePass",
			Types: []*Type{{
				Name:    "AccumulatePass",
				Desc:    "Temporal accumulation",
				Inputs:  []Channel{{Name: "input", Texture: "gCurFrame", Desc: "Input data to be temporally accumulated"}},
				Outputs: []Channel{{Name: "output", Texture: "gOutputFrame", Desc: "Output data that is temporally accumulated", Format: fmtRGBA32Float}},
			}},
		},
		{
			Name: "ToneMapper",
			Types: []*Type{{
				Name:    "ToneMapper",
				Desc:    "Tone-map a color buffer",
				Inputs:  []Channel{{Name: "src", Texture: "gSrc", Desc: "Source color buffer"}},
				Outputs: []Channel{{Name: "dst", Texture: "gDst", Desc: "Tone-mapped output"}},
			}},
		},
	}
}

func gbufferOutputs() []Channel {
	return []Channel{
		{Name: "posW", Texture: "gPosW", Desc: "Position in world space", Format: fmtRGBA32Float},
		{Name: "normW", Texture: "gNormW", Desc: "Shading normal in world space", Format: fmtRGBA32Float},
		{Name: "tangentW", Texture: "gTangentW", Desc: "Shading tangent in world space", Format: fmtRGBA32Float},
		{Name: "faceNormalW", Texture: "gFaceNormalW", Desc: "Face normal in world space", Format: fmtRGBA32Float},
		{Name: "texC", Texture: "gTexC", Desc: "Texture coordinate", Format: fmtRG32Float},
		{Name: "diffuseOpacity", Texture: "gDiffuseOpacity", Desc: "Diffuse reflection albedo and opacity", Format: fmtRGBA32Float},
		{Name: "specRough", Texture: "gSpecRough", Desc: "Specular reflectance and roughness", Format: fmtRGBA32Float},
		{Name: "emissive", Texture: "gEmissive", Desc: "Emissive color", Format: fmtRGBA32Float},
		{Name: "matlExtra", Texture: "gMatlExtra", Desc: "Additional material data", Format: fmtRGBA32Float},
		{Name: "vbuffer", Texture: "gVBuffer", Desc: "Visibility buffer in packed format", Optional: true, Format: fmtRG32Uint},
		{Name: "mvec", Texture: "gMotionVector", Desc: "Motion vector", Optional: true, Format: fmtRG32Float},
		{Name: "viewW", Texture: "gViewW", Desc: "View direction in world space", Optional: true, Format: fmtRGBA32Float},
	}
}

// Build a tabular listing of the catalogued libraries and pass types.
func (c *Catalog) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Library", "Pass", "Inputs", "Outputs"})

	numTypes := 0
	for _, lib := range c.Libraries() {
		libName := lib.Name
		for _, t := range lib.Types {
			numTypes++
			table.Append([]string{libName, t.Name, fmtChannels(t.Inputs), fmtChannels(t.Outputs)})
			libName = ""
		}
	}
	table.SetFooter([]string{fmt.Sprintf("%d libraries", len(c.libraries)), fmt.Sprintf("%d passes", numTypes), " ", " "})

	table.Render()
	return buf.String()
}

// Format a channel list; optional channels are suffixed with '?'.
func fmtChannels(list []Channel) string {
	if len(list) == 0 {
		return "-"
	}
	names := make([]string, 0, len(list))
	for _, ch := range list {
		if ch.Optional {
			names = append(names, ch.Name+"?")
			continue
		}
		names = append(names, ch.Name)
	}
	return strings.Join(names, ", ")
}
