package pdf

import (
	"context"
	"errors"
	"io"
)

type PDFPage struct {
	Bytes    []byte
	FileName string
	MimeType string
}

// Artifact: результат операции, уходит клиенту как attachment
type Artifact struct {
	Bytes    []byte
	FileName string
	MimeType string
}

// EmbeddedImage: растровый объект внутри PDF
type EmbeddedImage struct {
	ObjNr    int
	PageNr   int
	FileType string
	Bytes    []byte
}

var ErrWrongPassword = errors.New("wrong password")

// PDFConverter растеризует страницы PDF в JPEG
type PDFConverter interface {
	ConvertToImages(ctx context.Context, pdf io.Reader) ([]PDFPage, error)
}

// Engine: операции над структурой PDF
type Engine interface {
	// Inspect парсит документ и сообщает, зашифрован ли он
	Inspect(ctx context.Context, data []byte) (encrypted bool, err error)
	// Decrypt возвращает ErrWrongPassword, если пароль не подошёл
	Decrypt(ctx context.Context, data []byte, password string) ([]byte, error)
	Encrypt(ctx context.Context, data []byte, password string) ([]byte, error)
	// Rewrite пересобирает документ без шифрования
	Rewrite(ctx context.Context, data []byte) ([]byte, error)
	FromImages(ctx context.Context, imgs [][]byte) ([]byte, error)
	// RewriteImages заменяет поток каждого растрового объекта на результат fn
	RewriteImages(ctx context.Context, data []byte, fn func(EmbeddedImage) ([]byte, error)) ([]byte, error)
	PageCount(ctx context.Context, data []byte) (int, error)
}
