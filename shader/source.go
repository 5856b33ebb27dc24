package shader

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/glrender/backend"
)

// Language is the source language of shader data.
type Language uint8

// Languages. LanguageDefault resolves to Config.Language.
const (
	LanguageDefault Language = iota
	LanguageGLSL
	LanguageWGSL
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageWGSL:
		return "wgsl"
	}
	return "default"
}

// LanguageOf guesses the language of a shader file from its extension.
func LanguageOf(name string) Language {
	if strings.EqualFold(path.Ext(name), ".wgsl") {
		return LanguageWGSL
	}
	return LanguageDefault
}

// Flags select optional stages and program kinds.
type Flags uint8

// Program flags.
const (
	// FlagTessellation adds the tessellation control and evaluation
	// stages.
	FlagTessellation Flags = 1 << iota
	// FlagGeometry adds the geometry stage.
	FlagGeometry
	// FlagSeparable links a separable program for program pipelines.
	FlagSeparable
)

// Feature is a boolean preprocessor switch.
type Feature struct {
	Name    string
	Enabled bool
}

// Data is the registered source of one shader path.
type Data struct {
	Source   string
	Stages   backend.ShaderStageFlags
	Language Language
	// HasGeometry adds the geometry stage to every program of the path.
	HasGeometry bool
	// IsCompute makes the path a compute-only program.
	IsCompute bool
}

// stages returns the stages a program of d is built from.
func (d Data) stages(flags Flags) backend.ShaderStageFlags {
	if d.IsCompute {
		return backend.StageFlagCompute
	}
	s := d.Stages &^ backend.StageFlagCompute
	if s == 0 {
		s = backend.StageFlagVertex | backend.StageFlagFragment
	}
	if flags&FlagTessellation != 0 {
		s |= backend.StageFlagTessControl | backend.StageFlagTessEval
	}
	if d.HasGeometry || flags&FlagGeometry != 0 {
		s |= backend.StageFlagGeometry
	}
	return s
}

var stageOrder = []struct {
	flag  backend.ShaderStageFlags
	stage backend.ShaderStage
	macro string
}{
	{backend.StageFlagVertex, backend.StageVertex, "VERTEX_SHADER"},
	{backend.StageFlagTessControl, backend.StageTessControl, "TESSELLATION_CONTROL_SHADER"},
	{backend.StageFlagTessEval, backend.StageTessEval, "TESSELLATION_EVALUATION_SHADER"},
	{backend.StageFlagGeometry, backend.StageGeometry, "GEOMETRY_SHADER"},
	{backend.StageFlagFragment, backend.StageFragment, "FRAGMENT_SHADER"},
	{backend.StageFlagCompute, backend.StageCompute, "COMPUTE_SHADER"},
}

// Define is one preprocessor definition.
type Define struct {
	Name  string
	Value string
}

// ParseDefines splits a define list. Entries are separated by spaces,
// commas or semicolons and have the form NAME or NAME=VALUE.
func ParseDefines(s string) []Define {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n'
	})
	defs := make([]Define, 0, len(fields))
	for _, f := range fields {
		name, value, _ := strings.Cut(f, "=")
		if name == "" {
			continue
		}
		defs = append(defs, Define{Name: name, Value: value})
	}
	return defs
}

// featureKey is the canonical cache spelling of a feature set.
func featureKey(features []Feature) string {
	if len(features) == 0 {
		return ""
	}
	sorted := slices.Clone(features)
	slices.SortFunc(sorted, func(a, b Feature) int { return strings.Compare(a.Name, b.Name) })
	var sb strings.Builder
	for _, f := range sorted {
		sb.WriteString(f.Name)
		if f.Enabled {
			sb.WriteString("=1;")
		} else {
			sb.WriteString("=0;")
		}
	}
	return sb.String()
}

// versionLine returns the #version directive for a context.
func versionLine(f backend.SurfaceFormat, t backend.ContextType) string {
	switch t {
	case backend.GLES2:
		return "#version 100"
	case backend.GLES3:
		return "#version 300 es"
	case backend.GLES3PLUS:
		if f.Minor >= 2 {
			return "#version 320 es"
		}
		return "#version 310 es"
	case backend.GL2:
		return "#version 120"
	case backend.GL3:
		switch {
		case f.Minor >= 3:
			return "#version 330 core"
		case f.Minor == 2:
			return "#version 150"
		case f.Minor == 1:
			return "#version 140"
		}
		return "#version 130"
	case backend.GL4:
		return fmt.Sprintf("#version 4%d0 core", min(f.Minor, 6))
	}
	return "#version 330 core"
}

// glslStage assembles the source of one stage of a GLSL program.
func glslStage(b *backend.Backend, stage backend.ShaderStage, macro string, defs []Define, features []Feature, src string) string {
	t := b.ContextType()
	f := b.SurfaceFormat()

	var sb strings.Builder
	sb.WriteString(versionLine(f, t))
	sb.WriteByte('\n')

	if t.IsES() {
		if t == backend.GLES2 && stage == backend.StageFragment && b.Cap(backend.CapStandardDerivatives) {
			sb.WriteString("#extension GL_OES_standard_derivatives : enable\n")
		}
		if f.Minor < 2 {
			switch stage {
			case backend.StageTessControl, backend.StageTessEval:
				sb.WriteString("#extension GL_EXT_tessellation_shader : enable\n")
			case backend.StageGeometry:
				sb.WriteString("#extension GL_EXT_geometry_shader : enable\n")
			}
		}
		if stage != backend.StageVertex {
			if t == backend.GLES2 {
				sb.WriteString("#ifdef GL_FRAGMENT_PRECISION_HIGH\nprecision highp float;\n#else\nprecision mediump float;\n#endif\n")
			} else {
				sb.WriteString("precision highp float;\nprecision highp int;\n")
			}
		}
	}

	sb.WriteString("#define " + macro + " 1\n")
	legacy := t.IsLegacy()
	if legacy {
		sb.WriteString("#define GLRENDER_LEGACY 1\n")
	}
	switch {
	case stage == backend.StageVertex && legacy:
		sb.WriteString("#define in attribute\n#define out varying\n")
	case stage == backend.StageFragment && legacy:
		sb.WriteString("#define in varying\n#define texture texture2D\n#define fragOutput gl_FragColor\n")
	case stage == backend.StageFragment:
		sb.WriteString("out vec4 fragOutput;\n")
	}

	for _, d := range defs {
		if d.Value == "" {
			sb.WriteString("#define " + d.Name + " 1\n")
		} else {
			sb.WriteString("#define " + d.Name + " " + d.Value + "\n")
		}
	}
	for _, ft := range features {
		if ft.Enabled {
			sb.WriteString("#define " + ft.Name + " 1\n")
		} else {
			sb.WriteString("#define " + ft.Name + " 0\n")
		}
	}
	sb.WriteString(src)
	return sb.String()
}

// pipelineConstants turns defines and features into WGSL override values.
// Non-numeric values are skipped.
func pipelineConstants(defs []Define, features []Feature) map[string]float64 {
	if len(defs) == 0 && len(features) == 0 {
		return nil
	}
	pc := make(map[string]float64, len(defs)+len(features))
	for _, d := range defs {
		if d.Value == "" {
			pc[d.Name] = 1
			continue
		}
		v, err := strconv.ParseFloat(d.Value, 64)
		if err != nil {
			slogger().Debug("define is not a pipeline constant", "name", d.Name, "value", d.Value)
			continue
		}
		pc[d.Name] = v
	}
	for _, f := range features {
		if f.Enabled {
			pc[f.Name] = 1
		} else {
			pc[f.Name] = 0
		}
	}
	return pc
}
