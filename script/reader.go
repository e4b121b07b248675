package script

import (
	"fmt"

	"github.com/achilleasa/passgraph/asset"
)

// The Reader interface is implemented by all script readers.
type Reader interface {
	// Read a script from a resource.
	Read(*asset.Resource) (*Script, error)
}

// Read a script from a local file or http(s) URL. The reader is selected by
// the file extension.
func ReadScript(filename string) (*Script, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res)
}

// Read a script from an already opened resource.
func Read(res *asset.Resource) (*Script, error) {
	var reader Reader
	switch res.Ext() {
	case ".yaml", ".yml":
		reader = newYamlScriptReader()
	case ".py":
		reader = newMogwaiScriptReader()
	default:
		return nil, fmt.Errorf("readScript: unsupported file format %q", res.Ext())
	}
	return reader.Read(res)
}
