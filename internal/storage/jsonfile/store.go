// Package jsonfile stores the ledger as a single JSON object on disk.
//
// Every read and write goes back to the file under an advisory lock on
// <path>.lock, so several processes can share one ledger.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	apperrors "github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/storage"
)

type document struct {
	Version int                        `json:"version"`
	Keys    map[string]json.RawMessage `json:"keys"`
}

type Store struct {
	path string

	mu     sync.Mutex
	loaded bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	err := s.withLock(true, func() error {
		if _, err := os.Stat(s.path); err == nil {
			_, err := s.read()
			return err
		}
		return s.write(&document{Version: 1, Keys: map[string]json.RawMessage{}})
	})
	if err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return apperrors.ErrNotInitialized
	}
	if err := s.withLock(false, func() error {
		_, err := s.read()
		return err
	}); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *Store) Close() error {
	return nil
}

// withLock runs fn while holding the ledger's lock file. Readers share the
// lock, writers hold it exclusively.
func (s *Store) withLock(exclusive bool, fn func() error) error {
	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open ledger lock: %w", err)
	}
	defer f.Close()

	if err := lockFile(f, exclusive); err != nil {
		return fmt.Errorf("failed to lock ledger: %w", err)
	}
	defer unlockFile(f)

	return fn()
}

func (s *Store) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	if doc.Keys == nil {
		doc.Keys = map[string]json.RawMessage{}
	}
	return &doc, nil
}

// write replaces the file through a temp file in the same directory so a
// crash mid-write leaves the previous contents intact.
func (s *Store) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set ledger permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}

// snapshot reads the current file contents under a shared lock.
func (s *Store) snapshot() (*document, error) {
	if !s.loaded {
		return nil, fmt.Errorf("storage not loaded")
	}
	var doc *document
	err := s.withLock(false, func() error {
		var err error
		doc, err = s.read()
		return err
	})
	return doc, err
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	v, ok := doc.Keys[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Set(key string, value []byte) error {
	return s.SetMany(map[string][]byte{key: value})
}

// SetMany merges entries into the file as it is on disk at the time of the
// call. Keys written by other processes since the last read are kept.
func (s *Store) SetMany(entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}
	for k, v := range entries {
		if !json.Valid(v) {
			return fmt.Errorf("value for key %q is not valid JSON", k)
		}
	}

	return s.withLock(true, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		for k, v := range entries {
			doc.Keys[k] = append(json.RawMessage(nil), v...)
		}
		return s.write(doc)
	})
}

func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Keys))
	for k := range doc.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

var _ storage.Provider = (*Store)(nil)
