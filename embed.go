// Package drills provides embedded sample data (an address book and a book
// catalog) and an overlay filesystem that checks local disk first, falling
// back to embedded.
package drills

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

// Sample file names inside Samples.
const (
	SampleAddressBook = "names.txt"
	SampleCatalog     = "books.yaml"
)

//go:embed samples/names.txt samples/books.yaml
var rawSamples embed.FS

// Samples is the embedded sample filesystem with the "samples/" prefix stripped.
var Samples = mustSub(rawSamples, "samples")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	f, err := os.Open(filepath.Join(o.localDir, filepath.FromSlash(name)))
	if err == nil {
		return f, nil
	}
	return o.embedded.Open(name)
}
