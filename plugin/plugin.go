package plugin

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	ErrEmptyLibraryName = errors.New("plugin: empty library name")
)

// Channel describes an input or output resource of a render pass.
type Channel struct {
	Name string

	// Shader variable bound to the channel.
	Texture string

	Desc string

	// Optional channels may be left unconnected.
	Optional bool

	// Resource format; empty when the pass picks the format at runtime.
	Format string
}

// Type describes a render pass class exported by a plugin library.
type Type struct {
	Name    string
	Desc    string
	Library string

	Inputs  []Channel
	Outputs []Channel
}

// Lookup an input channel by name.
func (t *Type) Input(name string) (Channel, bool) {
	return findChannel(t.Inputs, name)
}

// Lookup an output channel by name.
func (t *Type) Output(name string) (Channel, bool) {
	return findChannel(t.Outputs, name)
}

func findChannel(list []Channel, name string) (Channel, bool) {
	for _, ch := range list {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

// Library is a render pass plugin module and the pass classes it exports.
type Library struct {
	Name  string
	Types []*Type
}

// Normalize a library reference so that "PTGBuffer" and "PTGBuffer.dll"
// refer to the same module.
func LibraryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(name), ".dll") {
		name += ".dll"
	}
	return name
}

// Catalog holds the reflection data of known plugin libraries.
type Catalog struct {
	libraries map[string]*Library
}

// Create an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		libraries: make(map[string]*Library),
	}
}

// Add a library to the catalog. Pass types are stamped with the library name.
func (c *Catalog) Register(lib *Library) error {
	name := LibraryName(lib.Name)
	if name == "" {
		return ErrEmptyLibraryName
	}
	if _, exists := c.libraries[name]; exists {
		return fmt.Errorf("plugin: library %q already registered", name)
	}

	lib.Name = name
	for _, t := range lib.Types {
		t.Library = name
	}
	c.libraries[name] = lib
	return nil
}

// Lookup a library by (possibly unnormalized) name.
func (c *Catalog) Library(name string) (*Library, bool) {
	lib, exists := c.libraries[LibraryName(name)]
	return lib, exists
}

// Returns all catalogued libraries sorted by name.
func (c *Catalog) Libraries() []*Library {
	out := make([]*Library, 0, len(c.libraries))
	for _, lib := range c.libraries {
		out = append(out, lib)
	}
	slices.SortFunc(out, func(a, b *Library) int { return strings.Compare(a.Name, b.Name) })
	return out
}
