// ABOUTME: Persistent session store holding the bearer token and cached role
// ABOUTME: Stores session.json in the XDG config directory; the only code touching persistence

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the session credential across runs.
// Implementations must treat an absent token as ("", nil).
type Store interface {
	Token() (string, error)
	SetToken(token string) error
	// Role is informational only; it is never used for authorization.
	Role() (string, error)
	SetRole(role string) error
	// Clear removes the token and the cached role.
	Clear() error
}

// FileName is the session file inside the config directory
const FileName = "session.json"

type sessionData struct {
	Token string `json:"token,omitempty"`
	Role  string `json:"role,omitempty"`
}

// FileStore keeps the session in a JSON file
type FileStore struct {
	configDir string
	mu        sync.Mutex
}

// NewFileStore creates a FileStore rooted at configDir
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

// Path returns the session file path
func (fs *FileStore) Path() string {
	return filepath.Join(fs.configDir, FileName)
}

// Token returns the persisted token, or "" when none is stored
func (fs *FileStore) Token() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return "", err
	}
	return data.Token, nil
}

// SetToken persists token, keeping the cached role
func (fs *FileStore) SetToken(token string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return err
	}
	data.Token = token
	return fs.save(data)
}

// Role returns the cached role, or "" when none is stored
func (fs *FileStore) Role() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return "", err
	}
	return data.Role, nil
}

// SetRole persists the cached role, keeping the token
func (fs *FileStore) SetRole(role string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return err
	}
	data.Role = role
	return fs.save(data)
}

// Clear deletes the session file
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	err := os.Remove(fs.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// load reads the session file. A missing or corrupt file is an empty session.
func (fs *FileStore) load() (sessionData, error) {
	raw, err := os.ReadFile(fs.Path())
	if errors.Is(err, os.ErrNotExist) {
		return sessionData{}, nil
	}
	if err != nil {
		return sessionData{}, err
	}

	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		// Invalid JSON, start fresh
		return sessionData{}, nil
	}
	return data, nil
}

// save writes the session file via a temp file and rename
func (fs *FileStore) save(data sessionData) error {
	if err := os.MkdirAll(fs.configDir, 0700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.configDir, FileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fs.Path())
}

// MemoryStore is a Store that lives only as long as the process
type MemoryStore struct {
	mu    sync.Mutex
	token string
	role  string
}

// NewMemoryStore creates a MemoryStore seeded with token
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Role() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role, nil
}

func (m *MemoryStore) SetRole(role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.role = role
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.role = ""
	return nil
}
