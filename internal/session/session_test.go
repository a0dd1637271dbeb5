package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "state", "session.yaml"))
}

func TestCurrentWithoutSignIn(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Current()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSignInPersists(t *testing.T) {
	m := newTestManager(t)
	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.FixedZone("X", 3600))

	sess, err := m.SignIn("  ana ", now)
	require.NoError(t, err)
	require.Equal(t, "ana", sess.UserID)
	_, err = uuid.Parse(sess.ID)
	require.NoError(t, err)

	loaded, err := NewManager(m.Path()).Current()
	require.NoError(t, err)
	require.Equal(t, sess.ID, loaded.ID)
	require.Equal(t, "ana", loaded.UserID)
	require.True(t, loaded.StartedAt.Equal(now))
}

func TestSignInReplacesSession(t *testing.T) {
	m := newTestManager(t)
	first, err := m.SignIn("ana", time.Now())
	require.NoError(t, err)
	second, err := m.SignIn("ben", time.Now())
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	cur, err := m.Current()
	require.NoError(t, err)
	require.Equal(t, "ben", cur.UserID)
}

func TestSignInRejectsBlankUser(t *testing.T) {
	m := newTestManager(t)
	_, err := m.SignIn("   ", time.Now())
	require.Error(t, err)
	_, err = os.Stat(m.Path())
	require.True(t, os.IsNotExist(err))
}

func TestSignOut(t *testing.T) {
	m := newTestManager(t)
	_, err := m.SignIn("ana", time.Now())
	require.NoError(t, err)

	require.NoError(t, m.SignOut())
	_, err = m.Current()
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, m.SignOut(), ErrNoSession)
}

func TestCurrentRejectsIncompleteFile(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(m.Path()), 0o700))
	require.NoError(t, os.WriteFile(m.Path(), []byte("id: not-a-uuid\nuser_id: ana\n"), 0o600))
	_, err := m.Current()
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, os.WriteFile(m.Path(), []byte("user_id: [unclosed\n"), 0o600))
	_, err = m.Current()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoSession)
}
