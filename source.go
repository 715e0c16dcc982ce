package echemplot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

var ErrDirNotFound = errors.New("echemplot: data directory not found")

// File is one entry of a data directory.
type File struct {
	Name string
	URL  string
}

// Source reads data directories and writes rendered charts. Locations are
// local paths or any URL scheme afs understands (file://, mem://, ...).
type Source struct {
	fs afs.Service
}

func NewSource() *Source {
	return &Source{fs: afs.New()}
}

// List returns the files in dir accepted by keep, sorted by name.
func (s *Source) List(ctx context.Context, dir string, keep func(name string) bool) ([]File, error) {
	var ok, err = s.fs.Exists(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirNotFound, dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	objects, err := s.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files = make([]File, 0, len(objects))
	for _, obj := range objects {
		if obj.IsDir() {
			continue
		}
		if keep != nil && !keep(obj.Name()) {
			continue
		}
		files = append(files, File{Name: obj.Name(), URL: obj.URL()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Table opens and parses one delimited file.
func (s *Source) Table(ctx context.Context, location string, comma rune) (*Table, error) {
	var rc, err = s.fs.OpenURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer rc.Close()

	t, err := ReadTable(rc, comma)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return t, nil
}

func (s *Source) Exists(ctx context.Context, location string) bool {
	var ok, err = s.fs.Exists(ctx, location)
	return err == nil && ok
}

// Upload stores data at location, creating parent folders as needed.
func (s *Source) Upload(ctx context.Context, location string, data []byte) error {
	if err := s.fs.Upload(ctx, location, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload %s: %w", location, err)
	}
	return nil
}

// Join appends name to a directory location.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.Contains(dir, "://") {
		return url.Join(dir, name)
	}
	return path.Join(dir, name)
}

// hasSuffix is the keep filter for "*.txt" style listings.
func hasSuffix(suffix string) func(string) bool {
	return func(name string) bool { return strings.HasSuffix(name, suffix) }
}

// LocalPath maps a file:// location to a plain path for tools that need one.
func LocalPath(location string) (string, error) {
	if !strings.Contains(location, "://") {
		return location, nil
	}
	var scheme = url.Scheme(location, "")
	if scheme != "file" {
		return "", fmt.Errorf("echemplot: %s is not a local location", location)
	}
	return url.Path(location), nil
}
