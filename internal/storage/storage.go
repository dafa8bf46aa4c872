// ABOUTME: Persistent key-value store for client state (session token, profile)
// ABOUTME: Stores string values in a JSON file under the XDG config directory

package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store is a small string key-value store
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	// SetMany writes all pairs in one commit; readers never observe a subset
	SetMany(values map[string]string) error
	Remove(keys ...string) error
}

// FileStore keeps values in <dir>/state.json
type FileStore struct {
	mu     sync.Mutex
	dir    string
	values map[string]string
	loaded bool
}

type stateData struct {
	Values map[string]string `json:"values"`
}

// NewFileStore creates a file-backed store in the given directory
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// path returns the path to the state JSON
func (fs *FileStore) path() string {
	return filepath.Join(fs.dir, "state.json")
}

// load reads the state file once. Missing or invalid files start fresh.
func (fs *FileStore) load() {
	if fs.loaded {
		return
	}
	fs.loaded = true
	fs.values = map[string]string{}

	data, err := os.ReadFile(fs.path())
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Cannot read state file, starting fresh", "path", fs.path(), "error", err)
		}
		return
	}

	var state stateData
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("Invalid state file, starting fresh", "path", fs.path(), "error", err)
		return
	}
	for k, v := range state.Values {
		fs.values[k] = v
	}
}

// save writes the whole map through a temp file so a crash never leaves a
// partially written state file behind
func (fs *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(fs.dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(stateData{Values: values}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, "state-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fs.path())
}

// Get returns the value stored under key
func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.load()
	v, ok := fs.values[key]
	return v, ok
}

// Set stores a single value
func (fs *FileStore) Set(key, value string) error {
	return fs.SetMany(map[string]string{key: value})
}

// SetMany stores all values in a single write
func (fs *FileStore) SetMany(values map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.load()
	next := copyMap(fs.values)
	for k, v := range values {
		next[k] = v
	}
	if err := fs.save(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

// Remove deletes keys; missing keys are ignored
func (fs *FileStore) Remove(keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.load()
	next := copyMap(fs.values)
	changed := false
	for _, k := range keys {
		if _, ok := next[k]; ok {
			delete(next, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := fs.save(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (ms *MemoryStore) Get(key string) (string, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.values[key]
	return v, ok
}

func (ms *MemoryStore) Set(key, value string) error {
	return ms.SetMany(map[string]string{key: value})
}

func (ms *MemoryStore) SetMany(values map[string]string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for k, v := range values {
		ms.values[k] = v
	}
	return nil
}

func (ms *MemoryStore) Remove(keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, k := range keys {
		delete(ms.values, k)
	}
	return nil
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}
