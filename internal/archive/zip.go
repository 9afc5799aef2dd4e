package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

type Entry struct {
	Name  string
	Bytes []byte
}

// Pack собирает entries в один zip в памяти, порядок сохраняется
func Pack(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Bytes); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Walk вызывает fn для каждого файла архива (директории пропускаются).
// Ошибка fn прерывает обход.
func Walk(r io.ReaderAt, size int64, fn func(name string, rc io.Reader) error) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := walkOne(f, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkOne(f *zip.File, fn func(name string, rc io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("zip open %s: %w", f.Name, err)
	}
	defer rc.Close()

	return fn(f.Name, rc)
}
