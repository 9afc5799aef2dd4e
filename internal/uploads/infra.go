package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tmpPrefix = ".upload-"

// DiskStore хранит файлы в одной директории.
// Запись идёт во временный файл и переименовывается, плюс мьютекс на имя,
// так что параллельные загрузки одного имени не перемешивают байты.
type DiskStore struct {
	dir   string
	locks *keyedMutex
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, locks: newKeyedMutex()}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(_ context.Context, name string, r io.Reader) error {
	unlock := s.locks.Lock(name)
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *DiskStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		// недописанные загрузки не показываем
		if strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *DiskStore) Open(_ context.Context, name string) (*Object, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Object{Body: f, Size: st.Size()}, nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

// Lock берёт мьютекс для key и возвращает unlock; запись удаляется, когда она никому не нужна
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
