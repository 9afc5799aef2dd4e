package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Vovarama1992/pdf_tools/internal/archive"
	"github.com/Vovarama1992/pdf_tools/internal/domain"
)

const (
	StatusUploaded  = "File uploaded"
	StatusExtracted = "Folder uploaded and extracted"

	msgNotFound = "File not found"
)

type ExpandResult struct {
	Stored    string
	Status    string
	Extracted []string
	Skipped   []string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CleanName обрезает пробелы и отклоняет всё, что может выйти за пределы хранилища
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "", name == ".", name == "..":
		return "", domain.ValidationError("invalid filename", nil)
	case strings.ContainsAny(name, "/\\\x00"):
		return "", domain.ValidationError("invalid filename: path separators are not allowed", nil)
	case filepath.IsAbs(name), filepath.VolumeName(name) != "":
		return "", domain.ValidationError("invalid filename: absolute paths are not allowed", nil)
	case strings.HasPrefix(name, tmpPrefix):
		// префикс занят недописанными загрузками, List их не показывает
		return "", domain.ValidationError("invalid filename: reserved prefix "+tmpPrefix, nil)
	}
	return name, nil
}

func (s *Service) Store(ctx context.Context, name string, r io.Reader) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, clean, r); err != nil {
		return "", fmt.Errorf("save %s: %w", clean, err)
	}
	return clean, nil
}

// StoreAndExpand сохраняет файл и, если это .zip, раскладывает его содержимое
// в то же плоское пространство имён. Вложенные пути сводятся к базовому имени,
// небезопасные записи пропускаются.
func (s *Service) StoreAndExpand(ctx context.Context, name string, r io.Reader) (*ExpandResult, error) {
	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(path.Ext(clean), ".zip") {
		if err := s.store.Save(ctx, clean, r); err != nil {
			return nil, fmt.Errorf("save %s: %w", clean, err)
		}
		return &ExpandResult{Stored: clean, Status: StatusUploaded}, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	if err := s.store.Save(ctx, clean, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("save %s: %w", clean, err)
	}

	res := &ExpandResult{Stored: clean, Status: StatusExtracted}
	var saveErr error
	err = archive.Walk(bytes.NewReader(data), int64(len(data)), func(entry string, rc io.Reader) error {
		base := path.Base(strings.ReplaceAll(entry, "\\", "/"))
		entryName, err := CleanName(base)
		if err != nil {
			res.Skipped = append(res.Skipped, entry)
			return nil
		}
		if err := s.store.Save(ctx, entryName, rc); err != nil {
			saveErr = fmt.Errorf("extract %s: %w", entry, err)
			return saveErr
		}
		res.Extracted = append(res.Extracted, entryName)
		return nil
	})
	if saveErr != nil {
		return nil, saveErr
	}
	if err != nil {
		return nil, domain.ValidationError("invalid zip archive", err)
	}

	return res, nil
}

// List: ссылки на скачивание для всего содержимого хранилища
func (s *Service) List(ctx context.Context, baseURL string) ([]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	base := strings.TrimRight(baseURL, "/")
	links := make([]string, len(names))
	for i, n := range names {
		links[i] = base + "/download/" + EscapeName(n)
	}
	return links, nil
}

// EscapeName кодирует имя для пути ссылки: без изменений остаются только
// буквы, цифры и "-._~", всё остальное уходит в %XX
func EscapeName(name string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

func (s *Service) Open(ctx context.Context, name string) (*Object, string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return nil, "", domain.NotFoundError(msgNotFound, err)
	}

	obj, err := s.store.Open(ctx, clean)
	if errors.Is(err, ErrNotFound) {
		return nil, "", domain.NotFoundError(msgNotFound, err)
	}
	if err != nil {
		return nil, "", err
	}
	return obj, clean, nil
}
