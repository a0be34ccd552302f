package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileStore keeps one YAML record per plugin variant under
// <dir>/<type>/<name>/<variant>.yml.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the record file for ref.
func (s *FileStore) Path(ref PluginRef) string {
	return filepath.Join(s.dir, ref.Type, ref.Name, ref.Variant+".yml")
}

// Read loads the record for ref. A missing file is not an error: it
// returns a nil record.
func (s *FileStore) Read(ref PluginRef) (*Record, error) {
	rec, err := s.ReadFile(s.Path(ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return rec, err
}

// ReadFile loads a record from an explicit path.
func (s *FileStore) ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &rec, nil
}

// Write replaces the record for ref. The file is written next to its
// destination and renamed into place.
func (s *FileStore) Write(ref PluginRef, rec *Record) error {
	path := s.Path(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode %s: %w", ref, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", ref, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+ref.Variant+"-*.yml")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Walk returns every .yml record file in the store, sorted.
func (s *FileStore) Walk() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories and in-flight temp files
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		// Records are only ever written as .yml, see Path.
		if filepath.Ext(path) == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
