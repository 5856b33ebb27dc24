package effect

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Library holds effect classes by name and creates instances of them.
type Library struct {
	mu       sync.RWMutex
	classes  map[string]*Class
	registry *gpucontext.Registry[*Effect]
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		classes:  make(map[string]*Class),
		registry: gpucontext.NewRegistry[*Effect](),
	}
}

// Register adds c, replacing a class of the same name. Instances created
// before keep the old class.
func (l *Library) Register(c *Class) {
	l.mu.Lock()
	l.classes[c.Name] = c
	l.mu.Unlock()
	l.registry.Register(c.Name, func() *Effect { return New(c) })
}

// Unregister removes the class name.
func (l *Library) Unregister(name string) {
	l.mu.Lock()
	delete(l.classes, name)
	l.mu.Unlock()
	l.registry.Unregister(name)
}

// Has reports whether a class name is registered.
func (l *Library) Has(name string) bool { return l.registry.Has(name) }

// Class returns the class name.
func (l *Library) Class(name string) (*Class, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.classes[name]
	return c, ok
}

// Classes returns the registered class names, sorted.
func (l *Library) Classes() []string {
	names := l.registry.Available()
	slices.Sort(names)
	return names
}

// Create returns a new instance of the class name.
func (l *Library) Create(name string) (*Effect, error) {
	e := l.registry.Get(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return e, nil
}
