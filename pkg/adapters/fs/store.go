package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Ext is the file extension of stored synchronization bytes.
const Ext = ".dbrg"

var (
	// ErrSnapshotNotFound is returned by Load when no file exists for a name.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrInvalidName is returned for names that would escape the store directory.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// Config configures a Store.
type Config struct {
	Dir    string
	Logger *slog.Logger
}

// Store keeps exported document bytes as files in one directory.
type Store struct {
	dir    string
	logger *slog.Logger

	mu       sync.RWMutex
	saves    int
	loads    int
	lastSave *time.Time
}

// NewStore creates a Store rooted at cfg.Dir. The directory is created on
// the first Save.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{dir: cfg.Dir, logger: logger}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path resolves a snapshot name to its file path.
func (s *Store) Path(name string) (string, error) {
	name = strings.TrimSuffix(name, Ext)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || isTempFile(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+Ext), nil
}

// Save writes data under name, replacing any previous content atomically.
func (s *Store) Save(name string, data []byte) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return err
	}

	now := time.Now()
	s.mu.Lock()
	s.saves++
	s.lastSave = &now
	s.mu.Unlock()

	s.logger.Debug("snapshot saved", "path", path, "bytes", len(data))
	return nil
}

// Load reads the bytes stored under name.
func (s *Store) Load(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}

	s.mu.Lock()
	s.loads++
	s.mu.Unlock()

	s.logger.Debug("snapshot loaded", "path", path, "bytes", len(data))
	return data, nil
}

// List returns the stored names matching the doublestar pattern, sorted.
// An empty pattern matches everything. A missing directory yields no names.
func (s *Store) List(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !strings.HasSuffix(pattern, Ext) {
		pattern += Ext
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidName, pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), pattern)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.Contains(m, "/") || isTempFile(m) {
			continue
		}
		names = append(names, strings.TrimSuffix(m, Ext))
	}
	sort.Strings(names)
	return names, nil
}
