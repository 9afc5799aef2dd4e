package uploads

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

type Object struct {
	Body io.ReadCloser
	Size int64
}

// Store: хранилище загруженных файлов, плоское пространство имён.
// Имена приходят уже проверенными сервисом.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) error
	List(ctx context.Context) ([]string, error)
	// Open возвращает ErrNotFound, если файла нет
	Open(ctx context.Context, name string) (*Object, error)
}
