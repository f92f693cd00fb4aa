package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/garnizeh/jobboard/pkg/dto"
)

// Storage keys, kept identical to the browser client's local storage entries.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is a string key/value store holding persisted client state.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Session is the explicit session state handed to the client. The user entry
// is stored as a JSON string.
type Session struct {
	store Store
}

func NewSession(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

func (s *Session) Token() string {
	v, _ := s.store.Get(KeyToken)
	return v
}

// User returns the cached user, nil when absent or unreadable.
func (s *Session) User() *dto.UserDto {
	raw, ok := s.store.Get(KeyUser)
	if !ok || raw == "" {
		return nil
	}
	var u dto.UserDto
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		logger.Warn("client: discarding unreadable cached user", "err", err)
		return nil
	}
	return &u
}

// Save stores token and user, as done at login.
func (s *Session) Save(token string, user *dto.UserDto) error {
	if err := s.store.Set(KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return s.SetUser(user)
}

func (s *Session) SetUser(user *dto.UserDto) error {
	if user == nil {
		return s.store.Remove(KeyUser)
	}
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(KeyUser, string(b)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear removes both entries.
func (s *Session) Clear() error {
	return errors.Join(s.store.Remove(KeyToken), s.store.Remove(KeyUser))
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileStore persists entries as a flat JSON object in a single file. Every
// write rewrites the whole file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) load() (map[string]string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]string{}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileStore) save(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o600)
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		logger.Warn("client: read session file", "path", f.path, "err", err)
		return "", false
	}
	v, ok := data[key]
	return v, ok
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *FileStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}
