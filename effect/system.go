package effect

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
	"github.com/gogpu/glrender/render"
	"github.com/gogpu/glrender/resource"
	"github.com/gogpu/glrender/shader"
)

// Config configures a System.
type Config struct {
	// DebugAsserts turns type mismatches and invariant violations into
	// panics.
	DebugAsserts bool
}

// RenderArgs are the inputs of one invocation.
type RenderArgs struct {
	// Input is the texture the effect processes.
	Input backend.TextureHandle
	// Premultiplied marks Input as premultiplied by alpha.
	Premultiplied bool
	// Depth is the depth-stencil texture of the scene, if any.
	Depth backend.TextureHandle
	// CameraClipRange is the near and far plane of the scene camera.
	CameraClipRange [2]float32
}

type dsState struct {
	desc backend.DepthStencilDesc
	h    backend.DepthStencilHandle
}

// System interprets effect commands. It must be used from the thread
// owning the rendering context.
type System struct {
	rm       *resource.Manager
	b        *backend.Backend
	shaders  *shader.Manager
	streams  *iostream.Factory
	cfg      Config
	contexts map[*Effect]*Context
	quad     quad
	dsStates []dsState
	frame    uint32
	fps      float32
}

// NewSystem creates a system allocating through rm and building programs
// with shaders.
func NewSystem(rm *resource.Manager, shaders *shader.Manager, cfg Config) *System {
	return &System{
		rm:       rm,
		b:        rm.RenderContext(),
		shaders:  shaders,
		cfg:      cfg,
		contexts: make(map[*Effect]*Context),
	}
}

// SetStreamFactory sets the factory used to load Texture2D properties
// given by path.
func (s *System) SetStreamFactory(f *iostream.Factory) { s.streams = f }

// SetFrameInfo sets the values of the FrameCount and FPS uniforms.
func (s *System) SetFrameInfo(frame uint32, fps float32) {
	s.frame = frame
	s.fps = fps
}

// Context returns the context of an effect instance, if it has run.
func (s *System) Context(e *Effect) (*Context, bool) {
	c, ok := s.contexts[e]
	return c, ok
}

func (s *System) context(e *Effect) *Context {
	c, ok := s.contexts[e]
	if !ok {
		c = newContext(e)
		s.contexts[e] = c
		slogger().Debug("effect context created", "effect", e.ClassName(), "id", e.ID())
	}
	return c
}

// ReleaseEffectContext releases every resource of an effect instance.
func (s *System) ReleaseEffectContext(e *Effect) {
	c, ok := s.contexts[e]
	if !ok {
		return
	}
	c.release(s.rm)
	delete(s.contexts, e)
}

// Release releases every context and the shared geometry and states.
func (s *System) Release() {
	for e, c := range s.contexts {
		c.release(s.rm)
		delete(s.contexts, e)
	}
	s.quad.release(s.b)
	for _, d := range s.dsStates {
		s.b.ReleaseDepthStencilState(d.h)
	}
	s.dsStates = nil
}

// RenderEffect runs e on args.Input and returns a new texture of the
// same size and format holding the result. The caller releases it
// through the resource manager.
func (s *System) RenderEffect(e *Effect, args RenderArgs) (backend.TextureHandle, bool) {
	d, ok := s.b.TextureDetails(args.Input)
	if !ok {
		slogger().Warn("effect input is not a texture", "effect", e.ClassName())
		return backend.TextureHandle{}, false
	}
	out := s.rm.AllocateTexture2D(d.Width, d.Height, d.Format, 1, false)
	if out.IsNull() {
		return out, false
	}
	fb := s.rm.AllocateFrameBuffer()
	if fb.IsNull() {
		s.rm.ReleaseTexture(out)
		return backend.TextureHandle{}, false
	}
	scope := render.BindTarget(s.b, fb)
	scope.AttachTexture(backend.AttachColor0, out)
	s.run(e, args, &pass{
		final:     fb,
		finalMVP:  fitMVP(),
		finalSize: [2]int{d.Width, d.Height},
	})
	scope.Close()
	s.rm.ReleaseFrameBuffer(fb)
	return out, true
}

// RenderEffectToTarget runs e into the current render target with mvp.
// With blendToTarget the caller's blend and scissor state applies to the
// passes rendered after a BindTarget. It reports whether any pass drew.
func (s *System) RenderEffectToTarget(e *Effect, args RenderArgs, mvp Mat4, blendToTarget bool) bool {
	vp := s.b.Viewport()
	size := [2]int{int(vp.Width), int(vp.Height)}
	if vp.Width < 0 {
		d, ok := s.b.TextureDetails(args.Input)
		if !ok {
			return false
		}
		size = [2]int{d.Width, d.Height}
	}
	p := &pass{
		final:         s.b.RenderTarget(),
		finalMVP:      mvp,
		finalSize:     size,
		blendToTarget: blendToTarget,
	}
	s.run(e, args, p)
	return p.rendered
}

// pass is the interpreter state threaded through one invocation.
type pass struct {
	eff           *Effect
	ctx           *Context
	args          RenderArgs
	saved         *render.StateScope
	final         backend.RenderTargetHandle
	finalMVP      Mat4
	finalSize     [2]int
	blendToTarget bool

	program  *shader.Program
	target   backend.RenderTargetHandle
	targetOK bool
	mvp      Mat4
	destSize [2]int
	source   backend.TextureHandle
	premul   bool
	depthCmd *DepthStencil
	depthTex backend.TextureHandle
	blending bool
	stencil  *render.TargetScope
	forced   map[[2]string]bool
	rendered bool
}

func (s *System) run(e *Effect, args RenderArgs, p *pass) {
	p.eff = e
	p.ctx = s.context(e)
	p.args = args
	p.saved = render.SaveState(s.b)
	p.forced = make(map[[2]string]bool)
	p.target, p.targetOK = p.final, true
	p.mvp = p.finalMVP
	p.destSize = p.finalSize
	p.source, p.premul = args.Input, args.Premultiplied

	b := s.b
	b.SetRenderTarget(p.final)
	b.SetViewport(backend.Rect{Width: int32(p.finalSize[0]), Height: int32(p.finalSize[1])})
	b.SetRenderState(backend.StateScissorTest, false)
	b.SetRenderState(backend.StateDepthTest, false)
	b.SetRenderState(backend.StateBlend, false)

	for _, cmd := range e.Commands() {
		s.execute(p, cmd)
	}

	if p.stencil != nil {
		p.stencil.Close()
		p.stencil = nil
	}
	p.ctx.endFrame(s.rm)
	e.RequiresCompilation = false
	p.saved.Restore()
}

func (s *System) execute(p *pass, cmd Command) {
	switch c := cmd.(type) {
	case AllocateBuffer:
		s.allocateBuffer(p, c)
	case AllocateImage:
		s.allocateImage(p, c)
	case AllocateDataBuffer:
		s.allocateDataBuffer(p, c)
	case BindBuffer:
		s.bindBuffer(p, c)
	case BindTarget:
		s.bindTarget(p)
	case BindShader:
		s.bindShader(p, c)
	case ApplyInstanceValue:
		s.applyInstanceValue(p, c)
	case ApplyValue:
		if p.program != nil {
			s.setParam(p, c.Param, c.Type, c.Value)
		}
	case ApplyBlending:
		s.applyBlending(p, c)
	case ApplyBufferValue:
		s.applyBufferValue(p, c)
	case ApplyDepthValue:
		s.applyDepthValue(p, c)
	case ApplyImageValue:
		s.applyImageValue(p, c)
	case ApplyDataBufferValue:
		s.applyDataBufferValue(p, c)
	case DepthStencil:
		s.depthStencil(p, c)
	case Render:
		s.render(p, c)
	case ApplyRenderState:
		s.applyRenderState(p, c)
	default:
		slogger().Error("unknown effect command", "effect", p.eff.ClassName(), "kind", cmd.Kind().String())
	}
}

// scaledSize is the destination size times m, rounded up to a multiple
// of 4.
func scaledSize(size [2]int, m float32) (int, int) {
	if m <= 0 {
		m = 1
	}
	round := func(v int) int {
		n := max(int(math32.Ceil(float32(v)*m)), 1)
		return (n + 3) &^ 3
	}
	return round(size[0]), round(size[1])
}

func sampling(filter gputypes.FilterMode, wrap gputypes.AddressMode) gputypes.SamplerDescriptor {
	d := resource.DefaultSampling()
	if filter != gputypes.FilterModeUndefined {
		d.MagFilter, d.MinFilter = filter, filter
	}
	if wrap != gputypes.AddressModeUndefined {
		d.AddressModeU, d.AddressModeV, d.AddressModeW = wrap, wrap, wrap
	}
	return d
}

func attachmentFor(f backend.TextureFormat) backend.Attachment {
	switch {
	case f == backend.FormatStencil8:
		return backend.AttachStencil
	case f.HasStencil():
		return backend.AttachDepthStencil
	case f.IsDepth():
		return backend.AttachDepth
	}
	return backend.AttachColor0
}

func (s *System) inputFormat(p *pass) backend.TextureFormat {
	if d, ok := s.b.TextureDetails(p.args.Input); ok {
		return d.Format
	}
	return backend.FormatRGBA8
}

func (s *System) allocateBuffer(p *pass, c AllocateBuffer) {
	w, h := scaledSize(p.finalSize, c.SizeMultiplier)
	format := c.Format
	if format == backend.FormatUnknown {
		format = s.inputFormat(p)
	}
	ctx := p.ctx
	if i := ctx.bufferIndex(c.Name); i >= 0 {
		e := ctx.buffers[i]
		if e.Width == w && e.Height == h && e.Format == format {
			e.Lifetime = c.Lifetime
			return
		}
		releaseBuffer(s.rm, e)
		ctx.buffers = append(ctx.buffers[:i], ctx.buffers[i+1:]...)
	}

	tex := s.rm.AllocateTexture2D(w, h, format, 1, false)
	if tex.IsNull() {
		slogger().Error("effect buffer allocation failed", "effect", p.eff.ClassName(), "buffer", c.Name)
		return
	}
	rt := s.rm.AllocateFrameBuffer()
	if rt.IsNull() {
		s.rm.ReleaseTexture(tex)
		return
	}
	s.b.RenderTargetAttachTexture(rt, attachmentFor(format), tex, backend.Texture2D)
	s.b.SetTextureSampling(tex, sampling(c.Filter, c.Wrap))
	ctx.buffers = append(ctx.buffers, &BufferInfo{
		Name:       c.Name,
		Target:     rt,
		Texture:    tex,
		Format:     format,
		Width:      w,
		Height:     h,
		Lifetime:   c.Lifetime,
		NeedsClear: true,
	})
}

func (s *System) allocateImage(p *pass, c AllocateImage) {
	w, h := scaledSize(p.finalSize, c.SizeMultiplier)
	format := c.Format
	if format == backend.FormatUnknown {
		format = s.inputFormat(p)
	}
	access := c.Access
	if access == 0 {
		access = backend.AccessReadWrite
	}
	ctx := p.ctx
	if i := ctx.imageIndex(c.Name); i >= 0 {
		e := ctx.images[i]
		if e.Width == w && e.Height == h && e.Format == format {
			e.Lifetime = c.Lifetime
			return
		}
		releaseImage(s.rm, e)
		ctx.images = append(ctx.images[:i], ctx.images[i+1:]...)
	}

	tex := s.rm.AllocateTexture2D(w, h, format, 1, true)
	if tex.IsNull() {
		slogger().Error("effect image allocation failed", "effect", p.eff.ClassName(), "image", c.Name)
		return
	}
	img := s.rm.AllocateImage2D(tex, access)
	if img == nil {
		s.rm.ReleaseTexture(tex)
		return
	}
	s.b.SetTextureSampling(tex, sampling(c.Filter, c.Wrap))
	ctx.images = append(ctx.images, &ImageInfo{
		Name:     c.Name,
		Image:    img,
		Texture:  tex,
		Format:   format,
		Width:    w,
		Height:   h,
		Lifetime: c.Lifetime,
	})
}

func (s *System) allocateDataBuffer(p *pass, c AllocateDataBuffer) {
	ctx := p.ctx
	if i := ctx.dataIndex(c.Name); i >= 0 {
		e := ctx.data[i]
		// Names are never redeclared with another layout.
		s.assert(e.Kind == c.BufferKind && e.Size == c.Size, ErrInvariant,
			"data buffer reused with another layout",
			"effect", p.eff.ClassName(), "buffer", c.Name,
			"kind", e.Kind.String(), "size", e.Size,
			"want_kind", c.BufferKind.String(), "want_size", c.Size)
		e.Lifetime = c.Lifetime
		if e.alias != nil {
			e.alias.Lifetime = c.Lifetime
		}
		return
	}

	data := make([]byte, c.Size)
	buf := s.b.CreateBuffer(c.BufferKind, backend.UsageDynamic, c.Size, data)
	if buf.IsNull() {
		slogger().Error("effect data buffer allocation failed", "effect", p.eff.ClassName(), "buffer", c.Name)
		return
	}
	entry := &DataBufferInfo{
		Name:     c.Name,
		Buffer:   buf,
		Kind:     c.BufferKind,
		Size:     c.Size,
		Data:     data,
		Lifetime: c.Lifetime,
	}
	ctx.data = append(ctx.data, entry)
	if c.WrapName == "" || ctx.dataIndex(c.WrapName) >= 0 {
		return
	}
	wrap := s.b.AliasBuffer(buf, backend.BufferStorage)
	if wrap.IsNull() {
		return
	}
	entry.alias = &DataBufferInfo{
		Name:     c.WrapName,
		Buffer:   wrap,
		Kind:     backend.BufferStorage,
		Size:     c.Size,
		Data:     data,
		Lifetime: c.Lifetime,
		alias:    entry,
	}
	ctx.data = append(ctx.data, entry.alias)
}

func (s *System) setViewport(size [2]int) {
	s.b.SetViewport(backend.Rect{Width: int32(size[0]), Height: int32(size[1])})
}

func (s *System) bindBuffer(p *pass, c BindBuffer) {
	i := p.ctx.bufferIndex(c.Name)
	if i < 0 {
		s.notFound(p.eff, "buffer", c.Name)
		p.target, p.targetOK = backend.RenderTargetHandle{}, false
		p.mvp = Identity()
		return
	}
	e := p.ctx.buffers[i]
	p.target, p.targetOK = e.Target, true
	p.mvp = fitMVP()
	p.destSize = [2]int{e.Width, e.Height}
	e.NeedsClear = false
	s.b.SetRenderTarget(e.Target)
	s.setViewport(p.destSize)
	if c.NeedsClear {
		s.b.SetClearColor(gputypes.Color{})
		s.b.Clear(backend.ClearColor)
	}
}

func (s *System) bindTarget(p *pass) {
	p.target, p.targetOK = p.final, true
	p.mvp = p.finalMVP
	p.destSize = p.finalSize
	s.b.SetRenderTarget(p.final)
	s.setViewport(p.destSize)
	if p.blendToTarget {
		p.saved.RestoreBlending()
	}
}

func (s *System) bindShader(p *pass, c BindShader) {
	key := [2]string{c.Path, c.Define}
	force := p.eff.RequiresCompilation && !p.forced[key]
	prog, ok := s.shaders.Program(c.Path, c.Define, p.eff.class.Features, 0, force)
	if force {
		p.forced[key] = true
	}
	if !ok {
		p.program = nil
		return
	}
	p.program = prog
	prog.Bind()
}

func (s *System) applyInstanceValue(p *pass, c ApplyInstanceValue) {
	if p.program == nil {
		return
	}
	if c.Property == "" {
		for _, prop := range p.eff.Properties() {
			s.setParam(p, prop.Name, prop.Type, prop.Value)
		}
		return
	}
	prop, ok := p.eff.Property(c.Property)
	if !ok {
		s.notFound(p.eff, "property", c.Property)
		return
	}
	s.setParam(p, prop.Name, prop.Type, prop.Value)
}

// setParam pushes a typed value into the current program.
func (s *System) setParam(p *pass, name string, typ backend.ShaderDataType, value any) {
	switch typ {
	case backend.TypeTexture2D:
		ref, ok := value.(TextureRef)
		if !s.assert(ok, ErrTypeMismatch, "texture parameter without texture value", "param", name) {
			return
		}
		if tex := s.resolveTexture(p, ref); !tex.IsNull() {
			s.bindTexture(p, name, tex, ref.Premultiplied)
		}
	case backend.TypeImage2D:
		ref, ok := value.(ImageRef)
		if !s.assert(ok, ErrTypeMismatch, "image parameter without image value", "param", name) {
			return
		}
		s.bindImage(p, name, ref.Name, false, false)
	case backend.TypeDataBuffer:
		ref, ok := value.(DataBufferRef)
		if !s.assert(ok, ErrTypeMismatch, "buffer parameter without buffer value", "param", name) {
			return
		}
		s.bindDataBuffer(p, name, ref.Name)
	default:
		u, ok := p.ctx.binding(p.program, name)
		if !ok {
			slogger().Debug("parameter not used by shader", "effect", p.eff.ClassName(), "param", name)
			return
		}
		if !s.assert(u.Type == typ || u.Type == backend.TypeUnknown, ErrTypeMismatch,
			"parameter type mismatch", "effect", p.eff.ClassName(), "param", name,
			"declared", u.Type.String(), "value", typ.String()) {
			return
		}
		p.program.SetValue(name, typ, value)
	}
}

// resolveTexture returns the handle of a texture value, loading it by
// path on first use.
func (s *System) resolveTexture(p *pass, ref TextureRef) backend.TextureHandle {
	if !ref.Handle.IsNull() {
		if ref.Filter != gputypes.FilterModeUndefined || ref.Wrap != gputypes.AddressModeUndefined {
			s.b.SetTextureSampling(ref.Handle, sampling(ref.Filter, ref.Wrap))
		}
		return ref.Handle
	}
	if ref.Path == "" {
		return backend.TextureHandle{}
	}
	if tex, ok := p.ctx.textures[ref.Path]; ok {
		return tex
	}
	if s.streams == nil {
		s.notFound(p.eff, "texture", ref.Path)
		return backend.TextureHandle{}
	}
	tex, err := s.rm.LoadTexture(s.streams, ref.Path, resource.UploadOptions{FlipY: true})
	if err != nil {
		slogger().Warn("effect texture not loaded", "effect", p.eff.ClassName(), "path", ref.Path, "err", err)
		return backend.TextureHandle{}
	}
	s.b.SetTextureSampling(tex, sampling(ref.Filter, ref.Wrap))
	p.ctx.textures[ref.Path] = tex
	return tex
}

// bindTexture binds tex to the sampler param and fills <param>Info with
// its size and premultiplication when the shader declares it.
func (s *System) bindTexture(p *pass, param string, tex backend.TextureHandle, premultiplied bool) {
	prog := p.program
	u, ok := p.ctx.binding(prog, param)
	if !ok {
		slogger().Debug("sampler not used by shader", "effect", p.eff.ClassName(), "param", param)
		return
	}
	if !s.assert(u.Type.IsSampler(), ErrTypeMismatch, "parameter is not a sampler",
		"effect", p.eff.ClassName(), "param", param, "declared", u.Type.String()) {
		return
	}
	prog.SetTexture(param, tex)
	info := param + "Info"
	if !prog.Has(info) {
		return
	}
	d, _ := s.b.TextureDetails(tex)
	var pm float32
	if premultiplied {
		pm = 1
	}
	prog.SetValue(info, backend.TypeVec4, []float32{float32(d.Width), float32(d.Height), pm, 0})
}

func (s *System) bindImage(p *pass, param, name string, asTexture, sync bool) {
	i := p.ctx.imageIndex(name)
	if i < 0 {
		s.notFound(p.eff, "image", name)
		return
	}
	e := p.ctx.images[i]
	if asTexture {
		s.bindTexture(p, param, e.Texture, false)
	} else {
		u, ok := p.ctx.binding(p.program, param)
		if !ok {
			s.notFound(p.eff, "parameter", param)
			return
		}
		if !s.assert(u.Type == backend.TypeImage2D, ErrTypeMismatch, "parameter is not an image",
			"effect", p.eff.ClassName(), "param", param, "declared", u.Type.String()) {
			return
		}
		p.program.SetImage(param, e.Texture, e.Image.Access, e.Format)
	}
	if sync {
		s.b.SetMemoryBarrier(backend.BarrierShaderImageAccess)
	}
}

func (s *System) bindDataBuffer(p *pass, param, name string) {
	i := p.ctx.dataIndex(name)
	if i < 0 {
		s.notFound(p.eff, "data buffer", name)
		return
	}
	e := p.ctx.data[i]
	if e.NeedsClear {
		clear(e.Data)
		s.b.UpdateBuffer(e.Buffer, 0, e.Data)
		e.NeedsClear = false
		if e.alias != nil {
			e.alias.NeedsClear = false
		}
	}
	switch e.Kind {
	case backend.BufferStorage:
		p.program.SetStorageBuffer(param, e.Buffer)
	case backend.BufferConstant:
		p.program.SetConstantBuffer(param, i, e.Buffer)
	default:
		s.assert(false, ErrTypeMismatch, "data buffer kind cannot back a block",
			"effect", p.eff.ClassName(), "buffer", name, "kind", e.Kind.String())
	}
}

func (s *System) applyBlending(p *pass, c ApplyBlending) {
	s.b.SetRenderState(backend.StateBlend, true)
	s.b.SetBlendFunc(backend.BlendFunc{SrcRGB: c.Src, DstRGB: c.Dst, SrcAlpha: c.Src, DstAlpha: c.Dst})
	s.b.SetBlendEquation(backend.BlendEquation{RGB: gputypes.BlendOperationAdd, Alpha: gputypes.BlendOperationAdd})
	p.blending = true
}

// clearBuffer clears a buffer on its first use of the frame.
func (s *System) clearBuffer(p *pass, e *BufferInfo) {
	s.b.SetRenderTarget(e.Target)
	s.setViewport([2]int{e.Width, e.Height})
	if e.Format.IsDepth() {
		s.b.SetClearDepth(1)
		s.b.Clear(backend.ClearDepth | backend.ClearStencil)
	} else {
		s.b.SetClearColor(gputypes.Color{})
		s.b.Clear(backend.ClearColor)
	}
	e.NeedsClear = false
	if p.targetOK {
		s.b.SetRenderTarget(p.target)
		s.setViewport(p.destSize)
	}
}

func (s *System) applyBufferValue(p *pass, c ApplyBufferValue) {
	tex, premul := p.args.Input, p.args.Premultiplied
	if c.Buffer != "" {
		i := p.ctx.bufferIndex(c.Buffer)
		if i < 0 {
			s.notFound(p.eff, "buffer", c.Buffer)
			return
		}
		e := p.ctx.buffers[i]
		if e.NeedsClear {
			s.clearBuffer(p, e)
		}
		tex, premul = e.Texture, false
	}
	if c.Param != "" {
		if p.program != nil {
			s.bindTexture(p, c.Param, tex, premul)
		}
		return
	}
	p.source, p.premul = tex, premul
}

func (s *System) applyDepthValue(p *pass, c ApplyDepthValue) {
	if p.args.Depth.IsNull() {
		s.notFound(p.eff, "depth texture", c.Param)
		return
	}
	if p.program != nil {
		s.bindTexture(p, c.Param, p.args.Depth, false)
	}
}

func (s *System) applyImageValue(p *pass, c ApplyImageValue) {
	if p.program == nil {
		return
	}
	s.bindImage(p, c.Param, c.Image, c.BindAsTexture, c.NeedSync)
}

func (s *System) applyDataBufferValue(p *pass, c ApplyDataBufferValue) {
	if p.program == nil {
		return
	}
	s.bindDataBuffer(p, c.Param, c.Buffer)
}

func (s *System) depthStencil(p *pass, c DepthStencil) {
	i := p.ctx.bufferIndex(c.Buffer)
	if i < 0 {
		s.notFound(p.eff, "depth-stencil buffer", c.Buffer)
		return
	}
	cmd := c
	p.depthCmd = &cmd
	p.depthTex = p.ctx.buffers[i].Texture
}

// depthStencilState returns a state object for desc, reusing an equal
// one created before.
func (s *System) depthStencilState(desc backend.DepthStencilDesc) backend.DepthStencilHandle {
	for _, d := range s.dsStates {
		if d.desc == desc {
			return d.h
		}
	}
	h := s.b.CreateDepthStencilState(desc)
	s.dsStates = append(s.dsStates, dsState{desc: desc, h: h})
	return h
}

func stencilDesc(c *DepthStencil) backend.DepthStencilDesc {
	orKeep := func(op gputypes.StencilOperation) gputypes.StencilOperation {
		if op == gputypes.StencilOperationUndefined {
			return gputypes.StencilOperationKeep
		}
		return op
	}
	fn := backend.StencilFunc{Compare: c.Compare, Ref: c.Ref, Mask: c.Mask}
	if fn.Compare == gputypes.CompareFunctionUndefined {
		fn.Compare = gputypes.CompareFunctionAlways
	}
	if fn.Mask == 0 {
		fn.Mask = 0xFF
	}
	op := backend.StencilOp{Fail: orKeep(c.Fail), DepthFail: orKeep(c.DepthFail), Pass: orKeep(c.Pass)}
	return backend.DepthStencilDesc{
		DepthFunc:     gputypes.CompareFunctionAlways,
		StencilEnable: true,
		FrontFunc:     fn,
		BackFunc:      fn,
		FrontOp:       op,
		BackOp:        op,
	}
}

func noDepthStencil() backend.DepthStencilDesc {
	d := backend.DefaultDepthStencil()
	d.DepthWrite = false
	return d
}

func (s *System) setIfDeclared(prog *shader.Program, name string, typ backend.ShaderDataType, v any) {
	if prog.Has(name) {
		prog.SetValue(name, typ, v)
	}
}

func (s *System) render(p *pass, c Render) {
	defer s.resetPass(p)
	if p.program == nil || p.source.IsNull() || !p.targetOK {
		slogger().Debug("effect pass skipped", "effect", p.eff.ClassName(),
			"shader", p.program != nil, "source", !p.source.IsNull(), "target", p.targetOK)
		return
	}
	if !s.quad.ensure(s.b) {
		return
	}
	b := s.b
	b.SetRenderTarget(p.target)
	s.setViewport(p.destSize)

	if p.depthCmd != nil {
		if p.stencil == nil {
			d, _ := b.TextureDetails(p.depthTex)
			scope := render.BindTarget(b, p.target)
			defer scope.Close()
			scope.AttachTexture(attachmentFor(d.Format), p.depthTex)
		}
		var flags backend.ClearFlags
		if p.depthCmd.ClearDepth {
			b.SetClearDepth(1)
			flags |= backend.ClearDepth
		}
		if p.depthCmd.ClearStencil {
			b.SetClearStencil(p.depthCmd.StencilValue)
			flags |= backend.ClearStencil
		}
		if flags != 0 {
			b.Clear(flags)
		}
		b.SetDepthStencilState(s.depthStencilState(stencilDesc(p.depthCmd)))
	} else if p.stencil == nil {
		b.SetDepthStencilState(s.depthStencilState(noDepthStencil()))
	}
	if c.NeedsClear {
		b.SetClearColor(gputypes.Color{})
		b.Clear(backend.ClearColor)
	}

	prog := p.program
	s.bindTexture(p, "Texture0", p.source, p.premul)
	s.setIfDeclared(prog, "ModelViewProjectionMatrix", backend.TypeMat4, p.mvp[:])
	s.setIfDeclared(prog, "FragColorAlphaSettings", backend.TypeVec2, []float32{1, 0})
	s.setIfDeclared(prog, "DestSize", backend.TypeVec2, []float32{float32(p.destSize[0]), float32(p.destSize[1])})
	s.setIfDeclared(prog, "FrameCount", backend.TypeFloat, float32(s.frame))
	s.setIfDeclared(prog, "FPS", backend.TypeFloat, s.fps)
	s.setIfDeclared(prog, "CameraClipRange", backend.TypeVec2, p.args.CameraClipRange[:])

	if !b.SetInputAssembler(s.quad.ia, prog.Handle()) {
		return
	}
	b.DrawIndexed(backend.DrawTriangles, 0, len(quadIndices))
	p.rendered = true
}

// resetPass undoes what a Render changed in the interpreter state.
func (s *System) resetPass(p *pass) {
	if p.blending {
		s.b.SetRenderState(backend.StateBlend, false)
		p.blending = false
	}
	p.source, p.premul = p.args.Input, p.args.Premultiplied
	p.depthCmd = nil
	p.depthTex = backend.TextureHandle{}
}

func (s *System) applyRenderState(p *pass, c ApplyRenderState) {
	if c.State != backend.StateStencilTest {
		s.b.SetRenderState(c.State, c.Enabled)
		return
	}
	if !c.Enabled {
		if p.stencil != nil {
			p.stencil.Close()
			p.stencil = nil
		}
		s.b.SetRenderState(backend.StateStencilTest, false)
		return
	}
	if p.args.Depth.IsNull() {
		s.notFound(p.eff, "depth texture", "stencil")
		return
	}
	if p.stencil == nil && p.targetOK {
		d, _ := s.b.TextureDetails(p.args.Depth)
		p.stencil = render.BindTarget(s.b, p.target)
		p.stencil.AttachTexture(attachmentFor(d.Format), p.args.Depth)
	}
	s.b.SetRenderState(backend.StateStencilTest, true)
}
