package effect

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
	"github.com/gogpu/glrender/shader"
)

// File is the decoded form of an effect file. A file holds any number of
// classes:
//
//	[[effect]]
//	name = "tint"
//
//	[[effect.property]]
//	name = "Color"
//	type = "vec4"
//	default = [1.0, 0.5, 0.5, 1.0]
//
//	[[effect.shader]]
//	path = "tint.glsl"
//	file = "shaders/tint.glsl"
//
//	[[effect.command]]
//	type = "BindShader"
//	path = "tint.glsl"
//
//	[[effect.command]]
//	type = "ApplyInstanceValue"
//
//	[[effect.command]]
//	type = "Render"
type File struct {
	Effects []ClassFile `toml:"effect"`
}

// ClassFile describes one class.
type ClassFile struct {
	Name       string          `toml:"name"`
	Features   map[string]bool `toml:"features"`
	Properties []PropertyFile  `toml:"property"`
	Shaders    []ShaderFile    `toml:"shader"`
	Commands   []CommandFile   `toml:"command"`
}

// PropertyFile describes a property and its default value. Numeric types
// take Default; sampler2D takes Path, image2D and buffer take Ref.
type PropertyFile struct {
	Name          string    `toml:"name"`
	Type          string    `toml:"type"`
	Default       []float64 `toml:"default"`
	Path          string    `toml:"path"`
	Filter        string    `toml:"filter"`
	Wrap          string    `toml:"wrap"`
	Premultiplied bool      `toml:"premultiplied"`
	Ref           string    `toml:"ref"`
}

// ShaderFile registers shader source under Path, given inline in Source
// or read from File.
type ShaderFile struct {
	Path     string `toml:"path"`
	Source   string `toml:"source"`
	File     string `toml:"file"`
	Language string `toml:"language"`
	Geometry bool   `toml:"geometry"`
	Compute  bool   `toml:"compute"`
}

// CommandFile is one command. Type selects the command; the other fields
// are read as that command needs them.
type CommandFile struct {
	Type string `toml:"type"`

	Name     string  `toml:"name"`
	Buffer   string  `toml:"buffer"`
	Image    string  `toml:"image"`
	Param    string  `toml:"param"`
	Property string  `toml:"property"`
	Path     string  `toml:"path"`
	Define   string  `toml:"define"`
	Scale    float32 `toml:"scale"`
	Format   string  `toml:"format"`
	Filter   string  `toml:"filter"`
	Wrap     string  `toml:"wrap"`
	Access   string  `toml:"access"`
	Lifetime string  `toml:"lifetime"`
	Size     int     `toml:"size"`
	Kind     string  `toml:"kind"`
	WrapName string  `toml:"wrap_name"`
	Clear    bool    `toml:"clear"`

	ValueType string    `toml:"value_type"`
	Value     []float64 `toml:"value"`

	Src     string `toml:"src"`
	Dst     string `toml:"dst"`
	State   string `toml:"state"`
	Enabled bool   `toml:"enabled"`

	AsTexture bool `toml:"as_texture"`
	Sync      bool `toml:"sync"`

	ClearDepth   bool   `toml:"clear_depth"`
	ClearStencil bool   `toml:"clear_stencil"`
	StencilValue int32  `toml:"stencil_value"`
	Ref          int32  `toml:"ref"`
	Mask         uint32 `toml:"mask"`
	Compare      string `toml:"compare"`
	Fail         string `toml:"fail"`
	DepthFail    string `toml:"depth_fail"`
	Pass         string `toml:"pass"`
}

// Decode reads an effect file. Unknown keys are errors.
func Decode(r io.Reader) (*File, error) {
	var f File
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %v", ErrInvalidFile, row, col, derr)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFile, serr.String())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return &f, nil
}

// Loader turns effect files into library classes and registers their
// shader sources.
type Loader struct {
	Library *Library
	Shaders *shader.Manager
	// Streams resolves effect files and shader files. It may be nil when
	// every shader is given inline.
	Streams *iostream.Factory
}

// LoadFile reads the effect file name through l.Streams and registers
// every class in it. Nothing is registered when any class is invalid.
func (l *Loader) LoadFile(name string) error {
	if l.Streams == nil {
		return fmt.Errorf("%w: %s: no stream factory", ErrInvalidFile, name)
	}
	r, err := l.Streams.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := l.Load(r); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Load reads an effect file from r and registers every class in it.
func (l *Loader) Load(r io.Reader) error {
	f, err := Decode(r)
	if err != nil {
		return err
	}
	classes := make([]*Class, 0, len(f.Effects))
	var shaders []shaderSource
	for i := range f.Effects {
		c, srcs, err := l.build(&f.Effects[i])
		if err != nil {
			return err
		}
		classes = append(classes, c)
		shaders = append(shaders, srcs...)
	}
	if l.Shaders != nil {
		for _, s := range shaders {
			l.Shaders.SetShaderData(s.path, s.source, 0, s.lang, s.geometry, s.compute)
		}
	}
	for _, c := range classes {
		l.Library.Register(c)
		slogger().Debug("effect class registered", "class", c.Name,
			"properties", len(c.Properties), "commands", len(c.Commands))
	}
	return nil
}

type shaderSource struct {
	path, source      string
	lang              shader.Language
	geometry, compute bool
}

func (l *Loader) build(cf *ClassFile) (*Class, []shaderSource, error) {
	if cf.Name == "" {
		return nil, nil, fmt.Errorf("%w: effect without name", ErrInvalidFile)
	}
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: effect %q: %s", ErrInvalidFile, cf.Name, fmt.Sprintf(format, args...))
	}

	c := &Class{Name: cf.Name}
	for _, name := range slices.Sorted(maps.Keys(cf.Features)) {
		c.Features = append(c.Features, shader.Feature{Name: name, Enabled: cf.Features[name]})
	}
	for i := range cf.Properties {
		p, err := parseProperty(&cf.Properties[i])
		if err != nil {
			return nil, nil, fail("property %q: %v", cf.Properties[i].Name, err)
		}
		c.Properties = append(c.Properties, p)
	}
	for i := range cf.Commands {
		cmd, err := parseCommand(&cf.Commands[i])
		if err != nil {
			return nil, nil, fail("command %d (%s): %v", i, cf.Commands[i].Type, err)
		}
		c.Commands = append(c.Commands, cmd)
	}

	var srcs []shaderSource
	for _, sf := range cf.Shaders {
		if sf.Path == "" {
			return nil, nil, fail("shader without path")
		}
		src := sf.Source
		if src == "" {
			if sf.File == "" || l.Streams == nil {
				return nil, nil, fail("shader %q has no source", sf.Path)
			}
			b, err := l.Streams.ReadFile(sf.File)
			if err != nil {
				return nil, nil, fail("shader %q: %v", sf.Path, err)
			}
			src = string(b)
		}
		lang, err := parseLanguage(sf.Language, sf.Path)
		if err != nil {
			return nil, nil, fail("shader %q: %v", sf.Path, err)
		}
		srcs = append(srcs, shaderSource{path: sf.Path, source: src, lang: lang, geometry: sf.Geometry, compute: sf.Compute})
	}
	return c, srcs, nil
}

func parseLanguage(s, path string) (shader.Language, error) {
	switch strings.ToLower(s) {
	case "":
		return shader.LanguageOf(path), nil
	case "glsl":
		return shader.LanguageGLSL, nil
	case "wgsl":
		return shader.LanguageWGSL, nil
	}
	return 0, fmt.Errorf("unknown language %q", s)
}

func parseProperty(pf *PropertyFile) (Property, error) {
	if pf.Name == "" {
		return Property{}, errors.New("missing name")
	}
	t := backend.ParseShaderDataType(pf.Type)
	if t == backend.TypeUnknown {
		return Property{}, fmt.Errorf("unknown type %q", pf.Type)
	}
	p := Property{Name: pf.Name, Type: t}
	switch t {
	case backend.TypeTexture2D:
		ref := TextureRef{Path: pf.Path, Premultiplied: pf.Premultiplied}
		var err error
		if ref.Filter, err = parseFilter(pf.Filter); err != nil {
			return Property{}, err
		}
		if ref.Wrap, err = parseWrap(pf.Wrap); err != nil {
			return Property{}, err
		}
		p.Value = ref
	case backend.TypeImage2D:
		p.Value = ImageRef{Name: pf.Ref}
	case backend.TypeDataBuffer:
		p.Value = DataBufferRef{Name: pf.Ref}
	default:
		v, err := numericValue(t, pf.Default)
		if err != nil {
			return Property{}, err
		}
		p.Value = v
	}
	return p, nil
}

// numericValue converts a TOML number list to the Go value stored for t.
// An empty list is the zero value.
func numericValue(t backend.ShaderDataType, in []float64) (any, error) {
	n := components(t)
	if len(in) == 0 {
		in = make([]float64, n)
	}
	if len(in) != n {
		return nil, fmt.Errorf("%s needs %d values, got %d", t, n, len(in))
	}
	var v any
	switch t {
	case backend.TypeFloat, backend.TypeVec2, backend.TypeVec3, backend.TypeVec4,
		backend.TypeMat2, backend.TypeMat3, backend.TypeMat4:
		out := make([]float32, n)
		for i, x := range in {
			out[i] = float32(x)
		}
		v = out
		if n == 1 {
			v = out[0]
		}
	case backend.TypeInt, backend.TypeIVec2, backend.TypeIVec3, backend.TypeIVec4:
		out := make([]int32, n)
		for i, x := range in {
			out[i] = int32(x)
		}
		v = out
		if n == 1 {
			v = out[0]
		}
	case backend.TypeUint, backend.TypeUVec2, backend.TypeUVec3, backend.TypeUVec4:
		out := make([]uint32, n)
		for i, x := range in {
			if x < 0 {
				return nil, fmt.Errorf("negative value %v for %s", x, t)
			}
			out[i] = uint32(x)
		}
		v = out
		if n == 1 {
			v = out[0]
		}
	case backend.TypeBool, backend.TypeBVec2, backend.TypeBVec3, backend.TypeBVec4:
		out := make([]bool, n)
		for i, x := range in {
			out[i] = x != 0
		}
		v = out
		if n == 1 {
			v = out[0]
		}
	default:
		return nil, fmt.Errorf("type %s has no numeric value", t)
	}
	return v, nil
}

// named is satisfied by the enums parsed by name.
type named interface {
	~uint8 | ~uint32
	String() string
}

// parseEnum finds the value in [lo, hi] whose String is s, ignoring
// case. An empty s gives def.
func parseEnum[T named](what, s string, lo, hi, def T) (T, error) {
	if s == "" {
		return def, nil
	}
	for v := lo; v <= hi; v++ {
		if strings.EqualFold(v.String(), s) {
			return v, nil
		}
	}
	return def, fmt.Errorf("unknown %s %q", what, s)
}

func parseFilter(s string) (gputypes.FilterMode, error) {
	return parseEnum("filter", s, gputypes.FilterModeNearest, gputypes.FilterModeLinear, gputypes.FilterModeUndefined)
}

func parseWrap(s string) (gputypes.AddressMode, error) {
	return parseEnum("wrap", s, gputypes.AddressModeClampToEdge, gputypes.AddressModeMirrorRepeat, gputypes.AddressModeUndefined)
}

func parseBlend(s string) (gputypes.BlendFactor, error) {
	if s == "" {
		return 0, errors.New("missing blend factor")
	}
	return parseEnum("blend factor", s, gputypes.BlendFactorZero, gputypes.BlendFactorOneMinusConstant, gputypes.BlendFactorUndefined)
}

func parseCompare(s string) (gputypes.CompareFunction, error) {
	return parseEnum("compare function", s, gputypes.CompareFunctionNever, gputypes.CompareFunctionAlways, gputypes.CompareFunctionUndefined)
}

func parseStencilOp(s string) (gputypes.StencilOperation, error) {
	return parseEnum("stencil operation", s, gputypes.StencilOperationKeep, gputypes.StencilOperationDecrementWrap, gputypes.StencilOperationUndefined)
}

func parseFormat(s string) (backend.TextureFormat, error) {
	if s == "" {
		return backend.FormatUnknown, nil
	}
	for _, f := range backend.AllFormats() {
		if strings.EqualFold(f.String(), s) {
			return f, nil
		}
	}
	return backend.FormatUnknown, fmt.Errorf("unknown format %q", s)
}

func parseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(s) {
	case "", "frame":
		return FrameLifetime, nil
	case "scene":
		return SceneLifetime, nil
	}
	return 0, fmt.Errorf("unknown lifetime %q", s)
}

func parseAccess(s string) (backend.ImageAccess, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "read":
		return backend.AccessRead, nil
	case "write":
		return backend.AccessWrite, nil
	case "readwrite", "read_write":
		return backend.AccessReadWrite, nil
	}
	return 0, fmt.Errorf("unknown access %q", s)
}

func parseBufferKind(s string) (backend.BufferKind, error) {
	if s == "" {
		return 0, errors.New("missing buffer kind")
	}
	return parseEnum("buffer kind", s, backend.BufferVertex, backend.BufferDrawIndirect, 0)
}

func parseRenderState(s string) (backend.RenderState, error) {
	if s == "" {
		return 0, errors.New("missing render state")
	}
	return parseEnum("render state", s, backend.StateBlend, backend.StateMultisample, 0)
}

// parser keeps the first error of a sequence of field parses.
type parser struct{ err error }

func (p *parser) keep(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) format(s string) backend.TextureFormat {
	v, err := parseFormat(s)
	p.keep(err)
	return v
}

func (p *parser) filter(s string) gputypes.FilterMode {
	v, err := parseFilter(s)
	p.keep(err)
	return v
}

func (p *parser) wrap(s string) gputypes.AddressMode {
	v, err := parseWrap(s)
	p.keep(err)
	return v
}

func (p *parser) lifetime(s string) Lifetime {
	v, err := parseLifetime(s)
	p.keep(err)
	return v
}

func (p *parser) access(s string) backend.ImageAccess {
	v, err := parseAccess(s)
	p.keep(err)
	return v
}

func (p *parser) bufferKind(s string) backend.BufferKind {
	v, err := parseBufferKind(s)
	p.keep(err)
	return v
}

func (p *parser) blend(s string) gputypes.BlendFactor {
	v, err := parseBlend(s)
	p.keep(err)
	return v
}

func (p *parser) compare(s string) gputypes.CompareFunction {
	v, err := parseCompare(s)
	p.keep(err)
	return v
}

func (p *parser) stencilOp(s string) gputypes.StencilOperation {
	v, err := parseStencilOp(s)
	p.keep(err)
	return v
}

func (p *parser) renderState(s string) backend.RenderState {
	v, err := parseRenderState(s)
	p.keep(err)
	return v
}

func needName(what, name string) error {
	if name == "" {
		return fmt.Errorf("missing %s", what)
	}
	return nil
}

func parseCommand(cf *CommandFile) (Command, error) {
	var p parser
	var cmd Command
	switch cf.Type {
	case "AllocateBuffer":
		p.err = needName("name", cf.Name)
		cmd = AllocateBuffer{
			Name:           cf.Name,
			SizeMultiplier: cf.Scale,
			Format:         p.format(cf.Format),
			Filter:         p.filter(cf.Filter),
			Wrap:           p.wrap(cf.Wrap),
			Lifetime:       p.lifetime(cf.Lifetime),
		}
	case "AllocateImage":
		p.err = needName("name", cf.Name)
		cmd = AllocateImage{
			Name:           cf.Name,
			SizeMultiplier: cf.Scale,
			Format:         p.format(cf.Format),
			Filter:         p.filter(cf.Filter),
			Wrap:           p.wrap(cf.Wrap),
			Access:         p.access(cf.Access),
			Lifetime:       p.lifetime(cf.Lifetime),
		}
	case "AllocateDataBuffer":
		p.err = needName("name", cf.Name)
		if p.err == nil && cf.Size <= 0 {
			p.err = fmt.Errorf("invalid size %d", cf.Size)
		}
		cmd = AllocateDataBuffer{
			Name:       cf.Name,
			Size:       cf.Size,
			BufferKind: p.bufferKind(cf.Kind),
			WrapName:   cf.WrapName,
			Lifetime:   p.lifetime(cf.Lifetime),
		}
	case "BindBuffer":
		p.err = needName("buffer", cf.Buffer)
		cmd = BindBuffer{Name: cf.Buffer, NeedsClear: cf.Clear}
	case "BindTarget":
		cmd = BindTarget{}
	case "BindShader":
		p.err = needName("path", cf.Path)
		cmd = BindShader{Path: cf.Path, Define: cf.Define}
	case "ApplyInstanceValue":
		cmd = ApplyInstanceValue{Property: cf.Property}
	case "ApplyValue":
		p.err = needName("param", cf.Param)
		t := backend.ParseShaderDataType(cf.ValueType)
		if p.err == nil && t == backend.TypeUnknown {
			p.err = fmt.Errorf("unknown value type %q", cf.ValueType)
		}
		var v any
		if p.err == nil {
			v, p.err = numericValue(t, cf.Value)
		}
		cmd = ApplyValue{Param: cf.Param, Type: t, Value: v}
	case "ApplyBlending":
		cmd = ApplyBlending{
			Src: p.blend(cf.Src),
			Dst: p.blend(cf.Dst),
		}
	case "ApplyBufferValue":
		cmd = ApplyBufferValue{Buffer: cf.Buffer, Param: cf.Param}
	case "ApplyDepthValue":
		p.err = needName("param", cf.Param)
		cmd = ApplyDepthValue{Param: cf.Param}
	case "ApplyImageValue":
		p.err = needName("image", cf.Image)
		cmd = ApplyImageValue{Image: cf.Image, Param: cf.Param, BindAsTexture: cf.AsTexture, NeedSync: cf.Sync}
	case "ApplyDataBufferValue":
		p.err = needName("buffer", cf.Buffer)
		cmd = ApplyDataBufferValue{Buffer: cf.Buffer, Param: cf.Param}
	case "DepthStencil":
		p.err = needName("buffer", cf.Buffer)
		cmd = DepthStencil{
			Buffer:       cf.Buffer,
			ClearDepth:   cf.ClearDepth,
			ClearStencil: cf.ClearStencil,
			StencilValue: cf.StencilValue,
			Ref:          cf.Ref,
			Mask:         cf.Mask,
			Compare:      p.compare(cf.Compare),
			Fail:         p.stencilOp(cf.Fail),
			DepthFail:    p.stencilOp(cf.DepthFail),
			Pass:         p.stencilOp(cf.Pass),
		}
	case "Render":
		cmd = Render{NeedsClear: cf.Clear}
	case "ApplyRenderState":
		cmd = ApplyRenderState{
			State:   p.renderState(cf.State),
			Enabled: cf.Enabled,
		}
	default:
		return nil, fmt.Errorf("unknown command type %q", cf.Type)
	}
	if p.err != nil {
		return nil, p.err
	}
	return cmd, nil
}
