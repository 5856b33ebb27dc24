package effect

import (
	"slices"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/shader"
)

// TextureRef is the value of a Texture2D property: a texture owned by the
// caller, or a path loaded through the system's stream factory.
type TextureRef struct {
	Handle backend.TextureHandle
	Path   string
	Filter gputypes.FilterMode
	Wrap   gputypes.AddressMode
	// Premultiplied marks textures whose colour is premultiplied by
	// alpha. It is passed to the shader in the <name>Info uniform.
	Premultiplied bool
}

// ImageRef is the value of an Image2D property: the name of an image
// allocated by an AllocateImage command.
type ImageRef struct {
	Name string
}

// DataBufferRef is the value of a DataBuffer property: the name of a
// buffer allocated by an AllocateDataBuffer command.
type DataBufferRef struct {
	Name string
}

// Property is a named, typed effect parameter. Numeric values are
// float32, int32, uint32 or bool, or slices of them for vector and
// matrix types.
type Property struct {
	Name  string
	Type  backend.ShaderDataType
	Value any
}

func components(t backend.ShaderDataType) int {
	switch t {
	case backend.TypeVec2, backend.TypeIVec2, backend.TypeUVec2, backend.TypeBVec2:
		return 2
	case backend.TypeVec3, backend.TypeIVec3, backend.TypeUVec3, backend.TypeBVec3:
		return 3
	case backend.TypeVec4, backend.TypeIVec4, backend.TypeUVec4, backend.TypeBVec4, backend.TypeMat2:
		return 4
	case backend.TypeMat3:
		return 9
	case backend.TypeMat4:
		return 16
	}
	return 1
}

// validValue reports whether v can be stored in a property of type t.
func validValue(t backend.ShaderDataType, v any) bool {
	n := components(t)
	switch t {
	case backend.TypeFloat, backend.TypeVec2, backend.TypeVec3, backend.TypeVec4,
		backend.TypeMat2, backend.TypeMat3, backend.TypeMat4:
		switch x := v.(type) {
		case float32:
			return n == 1
		case []float32:
			return len(x) == n
		}
	case backend.TypeInt, backend.TypeIVec2, backend.TypeIVec3, backend.TypeIVec4:
		switch x := v.(type) {
		case int32:
			return n == 1
		case []int32:
			return len(x) == n
		}
	case backend.TypeUint, backend.TypeUVec2, backend.TypeUVec3, backend.TypeUVec4:
		switch x := v.(type) {
		case uint32:
			return n == 1
		case []uint32:
			return len(x) == n
		}
	case backend.TypeBool, backend.TypeBVec2, backend.TypeBVec3, backend.TypeBVec4:
		switch x := v.(type) {
		case bool:
			return n == 1
		case []bool:
			return len(x) == n
		}
	case backend.TypeTexture2D:
		_, ok := v.(TextureRef)
		return ok
	case backend.TypeImage2D:
		_, ok := v.(ImageRef)
		return ok
	case backend.TypeDataBuffer:
		_, ok := v.(DataBufferRef)
		return ok
	}
	return false
}

// Class is an effect definition shared by its instances.
type Class struct {
	Name       string
	Properties []Property
	Commands   []Command
	// Features are preprocessor switches passed to every BindShader.
	Features []shader.Feature
}

var lastEffectID atomic.Uint64

// Effect is an instance of a class with its own property values.
type Effect struct {
	class  *Class
	id     uint64
	values []Property

	// RequiresCompilation forces the next invocation to rebuild its
	// shaders, for instance after a property changed a define.
	RequiresCompilation bool
}

// New creates an instance of c with the class default values.
func New(c *Class) *Effect {
	return &Effect{
		class:  c,
		id:     lastEffectID.Add(1),
		values: slices.Clone(c.Properties),
	}
}

// ClassName returns the name of the effect class.
func (e *Effect) ClassName() string { return e.class.Name }

// ID returns the process-unique instance id.
func (e *Effect) ID() uint64 { return e.id }

// Class returns the definition of e.
func (e *Effect) Class() *Class { return e.class }

// Commands returns the command list of the class.
func (e *Effect) Commands() []Command { return e.class.Commands }

// Properties returns the current property values.
func (e *Effect) Properties() []Property { return e.values }

// Property returns the current value of a property.
func (e *Effect) Property(name string) (Property, bool) {
	for _, p := range e.values {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// SetProperty changes a property value. A value that does not match the
// declared type is rejected and logged.
func (e *Effect) SetProperty(name string, value any) bool {
	for i := range e.values {
		p := &e.values[i]
		if p.Name != name {
			continue
		}
		if !validValue(p.Type, value) {
			slogger().Error("property type mismatch",
				"effect", e.ClassName(), "property", name,
				"type", p.Type.String(), "err", ErrTypeMismatch)
			return false
		}
		p.Value = value
		return true
	}
	slogger().Warn("unknown effect property",
		"effect", e.ClassName(), "property", name, "err", ErrResourceNotFound)
	return false
}
