package layout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source converts one rendering of a statement into fragments.
type Source interface {
	Read(r io.Reader) ([]Fragment, error)
	Format() string
	Extensions() []string
}

// Registry maps file extensions to sources.
type Registry struct {
	sources map[string]Source
}

// FileInfo describes a readable document in a directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source under each of its extensions. Panics on duplicate extension.
func (r *Registry) Register(s Source) {
	for _, ext := range s.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.sources[key]; ok {
			panic("duplicate source extension: " + key)
		}
		r.sources[key] = s
	}
}

// ForPath returns the source for path's extension, or nil.
func (r *Registry) ForPath(path string) Source {
	return r.sources[strings.ToLower(filepath.Ext(path))]
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(HTMLSource{})
	r.Register(PDFSource{})
	return r
}

// Open reads the document at path with the source matching its extension.
func (r *Registry) Open(path string) (*Document, error) {
	src := r.ForPath(path)
	if src == nil {
		return nil, fmt.Errorf("no source for %q", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	frags, err := src.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewDocument(path, frags), nil
}

// Scan returns the documents in dir that some registered source can read.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir %s: %w", dir, err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || r.ForPath(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
