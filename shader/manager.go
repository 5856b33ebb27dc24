package shader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/internal/cache"
	"github.com/gogpu/glrender/iostream"
)

// DefaultCacheLimit is the number of linked programs kept by default.
const DefaultCacheLimit = 128

// Config configures a Manager.
type Config struct {
	// CacheLimit bounds the number of cached programs.
	CacheLimit int
	// Language is used for data registered with LanguageDefault and for
	// files whose extension does not name a language.
	Language Language
}

func (c Config) withDefaults() Config {
	if c.CacheLimit <= 0 {
		c.CacheLimit = DefaultCacheLimit
	}
	if c.Language == LanguageDefault {
		c.Language = LanguageGLSL
	}
	return c
}

type programKey struct {
	path     string
	define   string
	features string
	flags    Flags
}

// Manager registers shader sources and builds programs from them.
type Manager struct {
	b   *backend.Backend
	cfg Config

	mu       sync.Mutex
	data     map[string]Data
	streams  *iostream.Factory
	failures map[programKey]error
	programs *cache.Cache[programKey, *Program]
}

// NewManager creates a manager compiling through b.
func NewManager(b *backend.Backend, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		b:        b,
		cfg:      cfg,
		data:     make(map[string]Data),
		failures: make(map[programKey]error),
		programs: cache.New[programKey, *Program](cfg.CacheLimit),
	}
	m.programs.OnEvict(func(k programKey, p *Program) {
		slogger().Debug("program released", "path", k.path, "define", k.define)
		p.release()
	})
	return m
}

// SetStreamFactory sets the factory used to load paths that were never
// registered with SetShaderData.
func (m *Manager) SetStreamFactory(f *iostream.Factory) {
	m.mu.Lock()
	m.streams = f
	m.mu.Unlock()
}

// SetShaderData registers the source of path. A stages value of zero
// means vertex and fragment. Registering a path drops the programs and
// failures built from its previous source.
func (m *Manager) SetShaderData(path, source string, stages backend.ShaderStageFlags, lang Language, hasGeometry, isCompute bool) {
	if lang == LanguageDefault {
		lang = m.cfg.Language
	}
	m.mu.Lock()
	m.data[path] = Data{
		Source:      source,
		Stages:      stages,
		Language:    lang,
		HasGeometry: hasGeometry,
		IsCompute:   isCompute,
	}
	for k := range m.failures {
		if k.path == path {
			delete(m.failures, k)
		}
	}
	m.mu.Unlock()

	for _, k := range m.programs.Keys() {
		if k.path == path {
			m.programs.Delete(k)
		}
	}
}

// ShaderData returns the registered source of path.
func (m *Manager) ShaderData(path string) (Data, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[path]
	return d, ok
}

func (m *Manager) lookup(path string) (Data, error) {
	m.mu.Lock()
	d, ok := m.data[path]
	streams := m.streams
	m.mu.Unlock()
	if ok {
		return d, nil
	}
	if streams == nil {
		return Data{}, fmt.Errorf("%w: %s", ErrUnknownShader, path)
	}
	src, err := streams.ReadFile(path)
	if err != nil {
		if errors.Is(err, iostream.ErrNotFound) {
			return Data{}, fmt.Errorf("%w: %s", ErrUnknownShader, path)
		}
		return Data{}, err
	}
	lang := LanguageOf(path)
	if lang == LanguageDefault {
		lang = m.cfg.Language
	}
	d = Data{Source: string(src), Language: lang}
	m.mu.Lock()
	m.data[path] = d
	m.mu.Unlock()
	slogger().Debug("shader loaded", "path", path, "language", lang.String())
	return d, nil
}

// Program returns the program of path built with define, features and
// flags. A cached program or a cached failure is returned unless force
// is set, in which case the program is rebuilt.
func (m *Manager) Program(path, define string, features []Feature, flags Flags, force bool) (*Program, bool) {
	key := programKey{path: path, define: define, features: featureKey(features), flags: flags}

	if force {
		m.programs.Delete(key)
		m.mu.Lock()
		delete(m.failures, key)
		m.mu.Unlock()
	} else {
		if p, ok := m.programs.Get(key); ok {
			return p, true
		}
		m.mu.Lock()
		err, failed := m.failures[key]
		m.mu.Unlock()
		if failed {
			slogger().Debug("program failed before", "path", path, "define", define, "err", err)
			return nil, false
		}
	}

	p, err := m.build(path, define, features, flags)
	if err != nil {
		slogger().Error("shader program failed", "path", path, "define", define, "err", err)
		m.mu.Lock()
		m.failures[key] = err
		m.mu.Unlock()
		return nil, false
	}
	m.programs.Set(key, p)
	return p, true
}

// Failure returns the error cached for a program combination.
func (m *Manager) Failure(path, define string, features []Feature, flags Flags) error {
	key := programKey{path: path, define: define, features: featureKey(features), flags: flags}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[key]
}

func (m *Manager) build(path, define string, features []Feature, flags Flags) (*Program, error) {
	d, err := m.lookup(path)
	if err != nil {
		return nil, err
	}
	defs := ParseDefines(define)
	stages := d.stages(flags)

	var tr *translation
	if d.Language == LanguageWGSL {
		if tr, err = newTranslation(m.b, d.Source, defs, features); err != nil {
			return nil, err
		}
	}

	var shaders []backend.ShaderHandle
	defer func() {
		for _, s := range shaders {
			m.b.ReleaseShader(s)
		}
	}()
	for _, st := range stageOrder {
		if stages&st.flag == 0 {
			continue
		}
		var src string
		if tr != nil {
			if src, err = tr.stage(st.stage); err != nil {
				return nil, err
			}
		} else {
			src = glslStage(m.b, st.stage, st.macro, defs, features, d.Source)
		}
		s, log := m.compile(st.stage, src)
		if s.IsNull() {
			if log == "" {
				return nil, fmt.Errorf("%w: %s stage of %s", ErrCompile, st.stage, path)
			}
			return nil, fmt.Errorf("%w: %s stage of %s: %s", ErrCompile, st.stage, path, log)
		}
		shaders = append(shaders, s)
	}

	h := m.b.CreateShaderProgram(flags&FlagSeparable != 0)
	if h.IsNull() {
		return nil, fmt.Errorf("%w: cannot create program for %s", ErrLink, path)
	}
	for _, s := range shaders {
		m.b.AttachShader(h, s)
	}
	if ok, log := m.b.LinkProgram(h); !ok {
		m.b.ReleaseShaderProgram(h)
		return nil, fmt.Errorf("%w: %s: %s", ErrLink, path, log)
	}
	slogger().Debug("program linked", "path", path, "define", define, "program", h.String())
	return newProgram(m.b, h, path, define), nil
}

func (m *Manager) compile(stage backend.ShaderStage, src string) (backend.ShaderHandle, string) {
	code := backend.ShaderCode{Source: src}
	switch stage {
	case backend.StageVertex:
		h, log := m.b.CreateVertexShader(code)
		return h.ShaderHandle, log
	case backend.StageFragment:
		h, log := m.b.CreateFragmentShader(code)
		return h.ShaderHandle, log
	case backend.StageTessControl:
		h, log := m.b.CreateTessControlShader(code)
		return h.ShaderHandle, log
	case backend.StageTessEval:
		h, log := m.b.CreateTessEvalShader(code)
		return h.ShaderHandle, log
	case backend.StageGeometry:
		h, log := m.b.CreateGeometryShader(code)
		return h.ShaderHandle, log
	case backend.StageCompute:
		h, log := m.b.CreateComputeShader(code)
		return h.ShaderHandle, log
	}
	return backend.ShaderHandle{}, ""
}

// Stats returns program cache statistics.
func (m *Manager) Stats() cache.Stats { return m.programs.Stats() }

// Release deletes every cached program and forgets cached failures.
// Registered sources are kept.
func (m *Manager) Release() {
	m.programs.Clear()
	m.mu.Lock()
	clear(m.failures)
	m.mu.Unlock()
}
