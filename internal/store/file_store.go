package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"pocketrelay/internal/domain"
)

const ppkExt = ".ppk.json"

// FileStore keeps PPKs as <dir>/<name>.ppk.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ domain.PPKStore = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// SavePPK stores ppk under name, replacing any previous key.
func (s *FileStore) SavePPK(name string, ppk domain.PPK) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path(name), ppk, 0o600); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// LoadPPK returns the PPK stored under name.
func (s *FileStore) LoadPPK(name string) (domain.PPK, error) {
	if err := checkName(name); err != nil {
		return domain.PPK{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var ppk domain.PPK
	if err := readJSON(s.path(name), &ppk); err != nil {
		if isNotExist(err) {
			return domain.PPK{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return domain.PPK{}, fmt.Errorf("load %s: %w", name, err)
	}
	return ppk, nil
}

// ListPPKs returns the stored account names in lexical order.
func (s *FileStore) ListPPKs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if isNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ppkExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ppkExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+ppkExt)
}
