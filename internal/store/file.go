package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/uuid"
)

// FileStore implements Store over a single JSON file, suitable for
// single-process deployments.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by the file at path. The file is
// created on first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the backing file. A missing file is initialized from
// v's current state; malformed content is reset the same way with a warning.
func (s *FileStore) Load(v any) error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.Save(v)
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrIO, s.path, err)
	}

	if err := decodeInto(raw, v); err != nil {
		log.Printf("[store] warning: invalid JSON in %s, resetting: %v", s.path, err)
		return s.Save(v)
	}
	return nil
}

// decodeInto unmarshals raw into v without leaving v partially populated on
// failure: the document is decoded into a fresh value first and only copied
// over on success, so a reset persists the caller's empty state, not a
// half-decoded document.
func decodeInto(raw []byte, v any) error {
	fresh := reflect.New(reflect.TypeOf(v).Elem())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return err
	}
	reflect.ValueOf(v).Elem().Set(fresh.Elem())
	return nil
}

// Save rewrites the whole file. The document is written to a temporary
// sibling and renamed into place so readers never observe a partial write.
func (s *FileStore) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrIO, s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", ErrIO, dir, err)
		}
	}

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrIO, s.path, err)
	}
	return nil
}
