package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/docbridge"
	"github.com/aretw0/docbridge/pkg/adapters/fs"
	"github.com/aretw0/docbridge/pkg/managed"
)

// ConfigFile is the name looked up at the workspace root.
const ConfigFile = "docbridge.yaml"

// Config is the on-disk CLI configuration.
type Config struct {
	Peer  uint64      `yaml:"peer,omitempty"`
	Store string      `yaml:"store,omitempty"`
	Doc   string      `yaml:"doc,omitempty"`
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig configures `docbridge watch`.
type WatchConfig struct {
	Dir     string `yaml:"dir,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
}

func defaultConfig(root string) Config {
	return Config{
		Store: filepath.Join(root, ".docbridge"),
		Doc:   "default",
		Watch: WatchConfig{
			Dir:     filepath.Join(root, "inbox"),
			Pattern: "**/*" + fs.Ext,
		},
	}
}

// loadConfig decodes a YAML config over base. Unknown keys are rejected.
// Relative paths are resolved against the config file's directory.
func loadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if cfg.Store != "" && !filepath.IsAbs(cfg.Store) {
		cfg.Store = filepath.Join(dir, cfg.Store)
	}
	if cfg.Watch.Dir != "" && !filepath.IsAbs(cfg.Watch.Dir) {
		cfg.Watch.Dir = filepath.Join(dir, cfg.Watch.Dir)
	}
	return cfg, nil
}

// resolveConfig loads explicit when set, otherwise the config file at the
// workspace root above cwd. Without either the defaults apply to cwd.
func resolveConfig(cwd, explicit string) (Config, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return Config{}, err
		}
		return loadConfig(abs, defaultConfig(filepath.Dir(abs)))
	}

	root, err := docbridge.FindRoot(cwd)
	if err != nil {
		return defaultConfig(cwd), nil
	}
	path := filepath.Join(root, ConfigFile)
	if _, err := os.Stat(path); err != nil {
		return defaultConfig(root), nil
	}
	return loadConfig(path, defaultConfig(root))
}

// session is one loaded document backed by the snapshot store.
type session struct {
	rt    *docbridge.Runtime
	store *fs.Store
	doc   *managed.Doc
	name  string
}

func openSession(cfg Config) (*session, error) {
	logger := slog.Default()
	rt := docbridge.New(docbridge.WithLogger(logger))
	store := fs.NewStore(fs.Config{Dir: cfg.Store, Logger: logger})

	doc := rt.Managed.NewDoc()
	data, err := store.Load(cfg.Doc)
	switch {
	case err == nil:
		if err := doc.Import(data); err != nil {
			doc.Release()
			return nil, fmt.Errorf("load %s: %w", cfg.Doc, err)
		}
	case errors.Is(err, fs.ErrSnapshotNotFound):
		logger.Debug("starting new document", "doc", cfg.Doc)
	default:
		doc.Release()
		return nil, err
	}

	if cfg.Peer != 0 {
		if err := doc.SetPeerID(cfg.Peer); err != nil {
			doc.Release()
			return nil, err
		}
	}
	return &session{rt: rt, store: store, doc: doc, name: cfg.Doc}, nil
}

// save writes the document back as a snapshot.
func (s *session) save() error {
	data, err := s.doc.ExportSnapshot()
	if err != nil {
		return err
	}
	return s.store.Save(s.name, data)
}

func (s *session) close() {
	s.doc.Release()
}

// mustSession opens the configured document or exits.
func mustSession() *session {
	s, err := openSession(cfg)
	if err != nil {
		fatal("Failed to open document", err)
	}
	return s
}
