package exercise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// Compile-time assertion that FileStore satisfies the Store interface.
var _ Store = (*FileStore)(nil)

// CustomFile is the on-disk layout of a custom exercise YAML file.
//
// Example:
//
//	exercises:
//	  - name: "Landmine Press"
//	    aliases: ["landmine"]
//	    group: shoulders
type CustomFile struct {
	Exercises []Definition `yaml:"exercises"`
}

// FileStore keeps custom exercises in a YAML file. Every Save rewrites the
// whole file through a temporary file and rename.
type FileStore struct {
	path string

	mu   sync.Mutex
	defs []Definition
}

// OpenFileStore loads path, treating a missing file as empty.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("exercise: open %q: %w", path, err)
	}
	defer f.Close()

	cf, err := LoadCustomFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("exercise: parse %q: %w", path, err)
	}
	for i, d := range cf.Exercises {
		if err := Validate(d); err != nil {
			return nil, fmt.Errorf("exercise: %q: exercises[%d]: %w", path, i, err)
		}
		d.Origin = OriginCustom
		s.defs = append(s.defs, d)
	}
	return s, nil
}

// LoadCustomFromReader parses custom exercise YAML from an [io.Reader].
// An empty document yields an empty file.
func LoadCustomFromReader(r io.Reader) (*CustomFile, error) {
	var cf CustomFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("exercise: decode yaml: %w", err)
	}
	return &cf, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load implements [Store.Load].
func (s *FileStore) Load(ctx context.Context) ([]Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.defs), nil
}

// Save implements [Store.Save].
func (s *FileStore) Save(ctx context.Context, def Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(def.Name)
	if slices.ContainsFunc(s.defs, func(d Definition) bool { return key(d.Name) == k }) {
		return ErrDuplicate
	}
	def.Origin = OriginCustom
	next := append(slices.Clone(s.defs), def)
	if err := s.write(next); err != nil {
		return err
	}
	s.defs = next
	return nil
}

// Exists implements [Store.Exists].
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(name)
	return slices.ContainsFunc(s.defs, func(d Definition) bool { return key(d.Name) == k }), nil
}

func (s *FileStore) write(defs []Definition) error {
	data, err := yaml.Marshal(CustomFile{Exercises: defs})
	if err != nil {
		return fmt.Errorf("exercise: encode yaml: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("exercise: create dir %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".exercises-*.yaml")
	if err != nil {
		return fmt.Errorf("exercise: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("exercise: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("exercise: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("exercise: replace %q: %w", s.path, err)
	}
	return nil
}
