package fs

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoad(t *testing.T) {
	s := NewStore(Config{Dir: filepath.Join(t.TempDir(), "snapshots")})

	require.NoError(t, s.Save("notes", []byte("one")))
	require.NoError(t, s.Save("notes.dbrg", []byte("two")))

	got, err := s.Load("notes")
	require.NoError(t, err)
	require.Equal(t, "two", string(got))

	state := s.State().(StoreState)
	require.Equal(t, 2, state.Saves)
	require.Equal(t, 1, state.Loads)
	require.NotNil(t, state.LastSave)
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(Config{Dir: t.TempDir()})
	_, err := s.Load("absent")
	require.True(t, errors.Is(err, ErrSnapshotNotFound))
}

func TestStore_RejectsEscapingNames(t *testing.T) {
	s := NewStore(Config{Dir: t.TempDir()})
	for _, name := range []string{"", "..", "a/b", `a\b`, TempFilePrefix + "x"} {
		err := s.Save(name, []byte("x"))
		require.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestStore_List(t *testing.T) {
	s := NewStore(Config{Dir: t.TempDir()})

	names, err := s.List("")
	require.NoError(t, err)
	require.Empty(t, names)

	for _, n := range []string{"b", "a", "peer-1", "peer-2"} {
		require.NoError(t, s.Save(n, []byte(n)))
	}

	names, err = s.List("")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "peer-1", "peer-2"}, names)

	names, err = s.List("peer-*")
	require.NoError(t, err)
	require.Equal(t, []string{"peer-1", "peer-2"}, names)
}

func TestStore_ListMissingDir(t *testing.T) {
	s := NewStore(Config{Dir: filepath.Join(t.TempDir(), "nope")})
	names, err := s.List("")
	require.NoError(t, err)
	require.Empty(t, names)
}
