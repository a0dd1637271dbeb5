// Package session tracks the signed-in user between invocations.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("no active session")

// Session is created at sign-in and destroyed at sign-out.
type Session struct {
	ID        string    `yaml:"id"`
	UserID    string    `yaml:"user_id"`
	StartedAt time.Time `yaml:"started_at"`
}

// Manager persists a single session file.
type Manager struct {
	path string
}

// NewManager returns a manager backed by the file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the session file location.
func (m *Manager) Path() string {
	return m.path
}

// SignIn replaces any existing session with a fresh one for user.
func (m *Manager) SignIn(user string, now time.Time) (Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return Session{}, fmt.Errorf("user must not be empty")
	}
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    user,
		StartedAt: now.UTC(),
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return Session{}, fmt.Errorf("failed to create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(m.path), "session-*.yaml")
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(data); err != nil {
		return Session{}, fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Session{}, fmt.Errorf("failed to close session: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		return Session{}, fmt.Errorf("failed to write session: %w", err)
	}
	return sess, nil
}

// Current loads the active session. A missing or incomplete file yields
// ErrNoSession.
func (m *Manager) Current() (Session, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.UserID == "" {
		return Session{}, ErrNoSession
	}
	if _, err := uuid.Parse(sess.ID); err != nil {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// SignOut destroys the active session.
func (m *Manager) SignOut() error {
	if err := os.Remove(m.path); err != nil {
		if os.IsNotExist(err) {
			return ErrNoSession
		}
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
