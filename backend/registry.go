package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Loader names.
const (
	LoaderWGPU = "wgpu"
	LoaderNull = "null"
)

// ErrLoaderNotAvailable is returned when no registered loader can create
// a native context.
var ErrLoaderNotAvailable = errors.New("backend: no native loader available")

// LoaderFactory loads the native functions of the current context and
// reports the surface format negotiated for it.
type LoaderFactory func() (GL, SurfaceFormat, error)

var (
	registryMu sync.RWMutex
	loaders    = make(map[string]LoaderFactory)
	// Priority order for loader selection (first that loads wins).
	loaderPriority = []string{LoaderWGPU, LoaderNull}
)

func init() {
	Register(LoaderNull, func() (GL, SurfaceFormat, error) {
		f := SurfaceFormat{API: NoAPI}
		return NewNullFunctions(f), f, nil
	})
}

// Register registers a loader with the given name, replacing any loader
// registered under it. Native adapters call this from init.
func Register(name string, factory LoaderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	loaders[name] = factory
}

// Unregister removes a loader from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(loaders, name)
}

// Available returns the names of the registered loaders.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a loader with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := loaders[name]
	return ok
}

// Get creates a backend with the named loader.
func Get(name string, opts ...Option) (*Backend, error) {
	registryMu.RLock()
	factory, ok := loaders[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLoaderNotAvailable, name)
	}
	funcs, format, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: loader %q: %w", name, err)
	}
	return New(funcs, format, opts...), nil
}

// Default creates a backend with the first loader that succeeds, in
// priority order, then any other registered loader.
func Default(opts ...Option) (*Backend, error) {
	registryMu.RLock()
	names := make([]string, 0, len(loaders))
	for _, name := range loaderPriority {
		if _, ok := loaders[name]; ok {
			names = append(names, name)
		}
	}
	for name := range loaders {
		if !slices.Contains(loaderPriority, name) {
			names = append(names, name)
		}
	}
	registryMu.RUnlock()

	var errs []error
	for _, name := range names {
		b, err := Get(name, opts...)
		if err == nil {
			return b, nil
		}
		slogger().Warn("native loader failed", "loader", name, "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrLoaderNotAvailable
	}
	return nil, fmt.Errorf("%w: %w", ErrLoaderNotAvailable, errors.Join(errs...))
}

