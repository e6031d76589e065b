package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := resolveConfig(dir, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, ".docbridge"), cfg.Store)
	require.Equal(t, "default", cfg.Doc)
	require.Zero(t, cfg.Peer)
	require.Equal(t, "**/*.dbrg", cfg.Watch.Pattern)
}

func TestResolveConfig_FindsWorkspaceFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(`
peer: 42
store: snaps
doc: notes
watch:
  dir: drop
  pattern: "peer-*.dbrg"
`), 0644))

	cfg, err := resolveConfig(nested, "")
	require.NoError(t, err)
	require.EqualValues(t, 42, cfg.Peer)
	require.Equal(t, filepath.Join(root, "snaps"), cfg.Store)
	require.Equal(t, "notes", cfg.Doc)
	require.Equal(t, filepath.Join(root, "drop"), cfg.Watch.Dir)
	require.Equal(t, "peer-*.dbrg", cfg.Watch.Pattern)
}

func TestLoadConfig_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("peers: 1\n"), 0644))

	_, err := resolveConfig(t.TempDir(), path)
	require.Error(t, err)
}

func TestLoadConfig_EmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := resolveConfig(t.TempDir(), path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Doc)
	require.Equal(t, filepath.Join(filepath.Dir(path), ".docbridge"), cfg.Store)
}

func TestSession_PersistsAcrossRuns(t *testing.T) {
	cfg := defaultConfig(t.TempDir())
	cfg.Peer = 7

	s, err := openSession(cfg)
	require.NoError(t, err)
	txt, err := s.doc.Text("text")
	require.NoError(t, err)
	require.NoError(t, txt.Insert(0, "hello"))
	txt.Release()
	require.NoError(t, s.save())
	s.close()

	cfg.Peer = 8
	s, err = openSession(cfg)
	require.NoError(t, err)
	defer s.close()
	require.EqualValues(t, 8, s.doc.PeerID())

	txt, err = s.doc.Text("text")
	require.NoError(t, err)
	defer txt.Release()
	require.NoError(t, txt.Insert(5, " world"))
	require.Equal(t, "hello world", txt.String())
}

func TestSession_CorruptSnapshot(t *testing.T) {
	cfg := defaultConfig(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.Store, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Store, cfg.Doc+".dbrg"), []byte("junk"), 0644))

	_, err := openSession(cfg)
	require.Error(t, err)
}
