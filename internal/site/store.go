package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/octobees/webdone/internal/entity"
)

// ErrNotFound indicates no stored page matched the requested identifier.
var ErrNotFound = errors.New("site not found")

// Store persists generated pages as flat files. Every page is written to
// two parallel directories that must stay identical, plus a JSON sidecar
// with the page metadata next to the primary copy.
type Store struct {
	sitesDir     string
	generatedDir string
	now          func() time.Time
}

// StoreOption configures optional store behaviour.
type StoreOption func(*Store)

// WithClock overrides the timestamp source, useful in tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates both target directories if missing.
func NewStore(sitesDir, generatedDir string, opts ...StoreOption) (*Store, error) {
	if strings.TrimSpace(sitesDir) == "" || strings.TrimSpace(generatedDir) == "" {
		return nil, errors.New("both storage directories are required")
	}
	for _, dir := range []string{sitesDir, generatedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	s := &Store{sitesDir: sitesDir, generatedDir: generatedDir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save writes the page to both directories and its metadata sidecar.
func (s *Store) Save(siteID, bizName, filename, html string) (entity.SiteMeta, error) {
	filename = safeFilename(filename)
	for _, dir := range []string{s.sitesDir, s.generatedDir} {
		if err := os.WriteFile(filepath.Join(dir, filename), []byte(html), 0o644); err != nil {
			return entity.SiteMeta{}, fmt.Errorf("write page %s: %w", filename, err)
		}
	}

	meta := entity.SiteMeta{
		ID:       siteID,
		BizName:  bizName,
		Created:  s.now().UTC(),
		Filename: filename,
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return entity.SiteMeta{}, fmt.Errorf("marshal site meta: %w", err)
	}
	metaName := strings.TrimSuffix(filename, ".html") + ".json"
	if err := os.WriteFile(filepath.Join(s.sitesDir, metaName), raw, 0o644); err != nil {
		return entity.SiteMeta{}, fmt.Errorf("write site meta: %w", err)
	}
	return meta, nil
}

// Update replaces the body of an already stored page in both directories,
// keeping filename and metadata untouched.
func (s *Store) Update(filename, html string) error {
	filename = safeFilename(filename)
	if _, err := os.Stat(filepath.Join(s.sitesDir, filename)); err != nil {
		return ErrNotFound
	}
	for _, dir := range []string{s.sitesDir, s.generatedDir} {
		if err := os.WriteFile(filepath.Join(dir, filename), []byte(html), 0o644); err != nil {
			return fmt.Errorf("update page %s: %w", filename, err)
		}
	}
	return nil
}

// Lookup resolves a site identifier to its filename and markup. It tries
// the exact filename first, then falls back to a substring scan across
// the storage directory.
func (s *Store) Lookup(siteID string) (string, string, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return "", "", ErrNotFound
	}

	filename := siteID
	if !strings.HasSuffix(filename, ".html") {
		filename += ".html"
	}
	filename = safeFilename(filename)

	path := filepath.Join(s.sitesDir, filename)
	if _, err := os.Stat(path); err != nil {
		match, scanErr := s.scan(siteID)
		if scanErr != nil {
			return "", "", scanErr
		}
		filename = match
		path = filepath.Join(s.sitesDir, filename)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read page %s: %w", filename, err)
	}
	return filename, string(raw), nil
}

// Read returns the markup for an exact stored filename.
func (s *Store) Read(filename string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.sitesDir, safeFilename(filename)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read page %s: %w", filename, err)
	}
	return string(raw), nil
}

// List returns the filenames of all stored pages.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.sitesDir)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Meta reads the sidecar metadata for a stored page filename.
func (s *Store) Meta(filename string) (entity.SiteMeta, error) {
	metaName := strings.TrimSuffix(safeFilename(filename), ".html") + ".json"
	raw, err := os.ReadFile(filepath.Join(s.sitesDir, metaName))
	if err != nil {
		if os.IsNotExist(err) {
			return entity.SiteMeta{}, ErrNotFound
		}
		return entity.SiteMeta{}, fmt.Errorf("read site meta: %w", err)
	}
	var meta entity.SiteMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return entity.SiteMeta{}, fmt.Errorf("decode site meta: %w", err)
	}
	return meta, nil
}

func (s *Store) scan(siteID string) (string, error) {
	entries, err := os.ReadDir(s.sitesDir)
	if err != nil {
		return "", fmt.Errorf("scan pages: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".html") {
			continue
		}
		if strings.Contains(name, siteID) {
			return name, nil
		}
	}
	return "", ErrNotFound
}

// safeFilename strips any path components so a request can never escape
// the storage directory.
func safeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(os.PathSeparator) {
		return "page.html"
	}
	return name
}
