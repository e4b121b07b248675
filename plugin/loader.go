package plugin

import "github.com/achilleasa/passgraph/log"

// Loader tracks the libraries a script asks the render host to load and
// resolves pass types against them.
type Loader struct {
	logger  log.Logger
	catalog *Catalog

	// Loaded libraries in load order.
	loaded []string
	seen   map[string]struct{}

	// Libraries that are not present in the catalog.
	opaque []string

	types map[string]*Type
}

// Create a loader backed by the given catalog. A nil catalog treats every
// library as opaque.
func NewLoader(catalog *Catalog) *Loader {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Loader{
		logger:  log.New("plugin loader"),
		catalog: catalog,
		seen:    make(map[string]struct{}),
		types:   make(map[string]*Type),
	}
}

// Record a library load. Loading the same library twice is a no-op.
func (l *Loader) LoadLibrary(name string) error {
	name = LibraryName(name)
	if name == "" {
		return ErrEmptyLibraryName
	}
	if _, exists := l.seen[name]; exists {
		return nil
	}
	l.seen[name] = struct{}{}
	l.loaded = append(l.loaded, name)

	lib, known := l.catalog.Library(name)
	if !known {
		l.logger.Debugf("library %q has no reflection data; its pass types will not be checked", name)
		l.opaque = append(l.opaque, name)
		return nil
	}

	for _, t := range lib.Types {
		if prev, exists := l.types[t.Name]; exists {
			l.logger.Warningf("pass type %q from %q shadows the one exported by %q", t.Name, name, prev.Library)
		}
		l.types[t.Name] = t
	}
	return nil
}

// Returns the loaded library names in load order.
func (l *Loader) Loaded() []string {
	out := make([]string, len(l.loaded))
	copy(out, l.loaded)
	return out
}

// Returns the loaded libraries that have no reflection data.
func (l *Loader) Opaque() []string {
	out := make([]string, len(l.opaque))
	copy(out, l.opaque)
	return out
}

// Resolve a pass type among the loaded catalogued libraries.
func (l *Loader) Lookup(passType string) (*Type, bool) {
	t, exists := l.types[passType]
	return t, exists
}
