// AngelaMos | 2026
// session.go

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is what a signed-in client remembers between runs.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore persists a session. Load returns nil, nil when there is
// nothing saved.
type SessionStore interface {
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryStore) Save(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *session
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	return nil
}

// FileStore keeps the session as JSON readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultSessionPath is ~/.config/pulse-crm/session.json or the
// platform equivalent.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "pulse-crm", "session.json"), nil
}

func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &s, nil
}

func (f *FileStore) Save(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
