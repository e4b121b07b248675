package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/passgraph/log"
)

// The Writer interface is implemented by all script writers.
type Writer interface {
	Write(*Script, io.Writer) error
}

// Select a writer for a file extension.
func writerFor(ext string) (Writer, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return &yamlScriptWriter{}, nil
	case ".py":
		return &mogwaiScriptWriter{}, nil
	}
	return nil, fmt.Errorf("writeScript: unsupported file format %q", ext)
}

// Write a script to w using the format associated with ext.
func Encode(sc *Script, ext string, w io.Writer) error {
	writer, err := writerFor(ext)
	if err != nil {
		return err
	}
	return writer.Write(sc, w)
}

// Write a script to a file. The format is selected by the file extension.
func WriteScript(sc *Script, filename string) error {
	logger := log.New("script writer")
	writer, err := writerFor(filepath.Ext(filename))
	if err != nil {
		return err
	}

	logger.Noticef("writing script to %s", filename)
	start := time.Now()

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = writer.Write(sc, f); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	logger.Noticef("wrote script in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}
