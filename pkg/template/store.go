package template

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/user/canvasfx/pkg/ports"
)

const ext = ".json"

// FileStore keeps one JSON document per template in a directory.
type FileStore struct {
	fs  ports.FileSystem
	dir string
	now func() time.Time
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(fs ports.FileSystem, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir, now: time.Now}
}

// Create assigns an ID and timestamps and saves t. The stored copy is
// returned.
func (s *FileStore) Create(t Template) (Template, error) {
	if strings.TrimSpace(t.Name) == "" {
		return Template{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if t.Status == "" {
		t.Status = StatusInactive
	}
	if !t.Status.Valid() {
		return Template{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, t.Status)
	}

	id, err := newID()
	if err != nil {
		return Template{}, err
	}
	now := s.now().UTC()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	t.BackgroundData = t.BackgroundData.Clone()

	if err := s.fs.MkdirAll(s.dir); err != nil {
		return Template{}, fmt.Errorf("create template dir: %w", err)
	}
	if err := s.write(t); err != nil {
		return Template{}, err
	}
	return t, nil
}

// Get loads the template with the given ID.
func (s *FileStore) Get(id string) (Template, error) {
	path, err := s.path(id)
	if err != nil {
		return Template{}, err
	}
	exists, err := s.fs.Exists(path)
	if err != nil {
		return Template{}, fmt.Errorf("stat template %s: %w", id, err)
	}
	if !exists {
		return Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.read(path)
}

// List returns every template, newest first.
func (s *FileStore) List() ([]Template, error) {
	names, err := s.fs.ListDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	templates := make([]Template, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ext) {
			continue
		}
		t, err := s.read(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	sort.SliceStable(templates, func(i, j int) bool {
		a, b := templates[i], templates[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return templates, nil
}

// UpdateStatus activates or deactivates a template.
func (s *FileStore) UpdateStatus(id string, status Status) (Template, error) {
	if !status.Valid() {
		return Template{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	t, err := s.Get(id)
	if err != nil {
		return Template{}, err
	}
	t.Status = status
	t.UpdatedAt = s.now().UTC()
	if err := s.write(t); err != nil {
		return Template{}, err
	}
	return t, nil
}

// Delete removes a template.
func (s *FileStore) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	path, _ := s.path(id)
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) read(path string) (Template, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read template: %w", err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("decode template %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

func (s *FileStore) write(t Template) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template %s: %w", t.ID, err)
	}
	path, err := s.path(t.ID)
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write template %s: %w", t.ID, err)
	}
	return nil
}

// path maps an ID to its file. IDs are lowercase hex, which keeps lookups
// inside the store directory.
func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.Trim(id, "0123456789abcdef") != "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return filepath.Join(s.dir, id+ext), nil
}

func newID() (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate template id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
