package credential

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"splitspecs/internal/common"
)

// FileStore keeps items in a YAML map file.
// Readers take a shared lock and writers an exclusive lock on path+".lock",
// so several CLI processes can share one file.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore returns a FileStore backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) GetItem(key string) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", err
	}
	if err := s.lock.RLock(); err != nil {
		return "", fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	items, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := items[key]
	if !ok {
		return "", common.ErrNotFound
	}
	return v, nil
}

func (s *FileStore) SetItem(key, value string) error {
	if key == "" {
		return common.ErrInvalidKey
	}
	return s.update(func(items map[string]string) {
		items[key] = value
	})
}

func (s *FileStore) RemoveItem(key string) error {
	return s.update(func(items map[string]string) {
		delete(items, key)
	})
}

func (s *FileStore) update(fn func(map[string]string)) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	fn(items)
	return s.save(items)
}

// load reads the map; a missing file is an empty map.
func (s *FileStore) load() (map[string]string, error) {
	items := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if items == nil {
		items = make(map[string]string)
	}
	return items, nil
}

// save writes via a temp file and rename so readers never see a partial file.
func (s *FileStore) save(items map[string]string) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	return os.MkdirAll(filepath.Dir(s.path), 0700)
}
