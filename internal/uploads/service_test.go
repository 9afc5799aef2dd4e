package uploads

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/pdf_tools/internal/domain"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)
	return NewService(store), dir
}

func zipOf(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if !strings.HasSuffix(name, "/") {
			_, err = w.Write([]byte(files[name]))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestCleanName(t *testing.T) {
	got, err := CleanName("  a.txt \t")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got)

	for _, bad := range []string{"", "   ", ".", "..", "../etc/passwd", "/etc/passwd", `..\win.ini`, "dir/file", "a\x00b"} {
		_, err := CleanName(bad)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "name %q", bad)
	}
}

func TestUploadListDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, dir := newTestService(t)

	name, err := svc.Store(ctx, " a.txt ", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", name)

	_, err = os.Stat(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)

	_, err = svc.Store(ctx, "my report.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	links, err := svc.List(ctx, "http://files.local:8000/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://files.local:8000/download/a.txt",
		"http://files.local:8000/download/my%20report.pdf",
	}, links)

	obj, got, err := svc.Open(ctx, "a.txt")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, "a.txt", got)
	assert.Equal(t, int64(5), obj.Size)
	b, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "hello", string(b))
}

func TestStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, dir := newTestService(t)

	_, err := svc.Store(ctx, "x.bin", strings.NewReader("first version"))
	require.NoError(t, err)
	_, err = svc.Store(ctx, "x.bin", strings.NewReader("v2"))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "x.bin"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))
}

func TestStoreRejectsTraversal(t *testing.T) {
	svc, dir := newTestService(t)

	_, err := svc.Store(context.Background(), "../escape.txt", strings.NewReader("x"))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Open(context.Background(), "never-uploaded.txt")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "File not found", domain.MessageOf(err, ""))

	_, _, err = svc.Open(context.Background(), "../../etc/passwd")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestStoreAndExpand_Zip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	data := zipOf(t, map[string]string{
		"photos/a.jpg":      "A",
		"photos/b.jpg":      "B",
		"docs/x/readme.txt": "R",
		"docs/..":           "?",
	}, []string{"photos/", "photos/a.jpg", "photos/b.jpg", "docs/..", "docs/x/readme.txt"})

	res, err := svc.StoreAndExpand(ctx, "album.ZIP", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, StatusExtracted, res.Status)
	assert.Equal(t, "album.ZIP", res.Stored)
	// вложенные пути сводятся к базовому имени, ".." пропускается
	assert.Equal(t, []string{"a.jpg", "b.jpg", "readme.txt"}, res.Extracted)
	assert.Equal(t, []string{"docs/.."}, res.Skipped)

	links, err := svc.List(ctx, "http://h")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://h/download/a.jpg",
		"http://h/download/album.ZIP",
		"http://h/download/b.jpg",
		"http://h/download/readme.txt",
	}, links)
}

func TestStoreAndExpand_PlainFile(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.StoreAndExpand(context.Background(), "notes.txt", strings.NewReader("n"))
	require.NoError(t, err)
	assert.Equal(t, StatusUploaded, res.Status)
	assert.Empty(t, res.Extracted)
}

func TestStoreAndExpand_BrokenZip(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StoreAndExpand(context.Background(), "broken.zip", strings.NewReader("not a zip"))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDiskStore_ConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	payloads := []string{
		strings.Repeat("a", 1<<16),
		strings.Repeat("b", 1<<16),
		strings.Repeat("c", 1<<16),
		strings.Repeat("d", 1<<16),
	}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, "same.txt", strings.NewReader(p)))
		}(p)
	}
	wg.Wait()

	b, err := os.ReadFile(filepath.Join(dir, "same.txt"))
	require.NoError(t, err)
	// файл целиком равен одной из загрузок, без перемешивания
	assert.Contains(t, payloads, string(b))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"same.txt"}, names)
	assert.Empty(t, store.locks.locks)
}

func TestCleanName_ReservedTempPrefix(t *testing.T) {
	ctx := context.Background()
	svc, dir := newTestService(t)

	_, err := svc.Store(ctx, tmpPrefix+"report.txt", strings.NewReader("r"))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// всё, что лежит в хранилище, видно в списке
	_, err = svc.Store(ctx, "upload-report.txt", strings.NewReader("r"))
	require.NoError(t, err)
	_, err = svc.Store(ctx, ".hidden", strings.NewReader("h"))
	require.NoError(t, err)

	links, err := svc.List(ctx, "http://h")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://h/download/.hidden", "http://h/download/upload-report.txt"}, links)
}

func TestEscapeName(t *testing.T) {
	cases := map[string]string{
		"a.txt":         "a.txt",
		"my report.pdf": "my%20report.pdf",
		"a+b.txt":       "a%2Bb.txt",
		"x&y=z;q.txt":   "x%26y%3Dz%3Bq.txt",
		"a:b@c$d,e.txt": "a%3Ab%40c%24d%2Ce.txt",
		"100%.txt":      "100%25.txt",
		"отчёт.pdf":     "%D0%BE%D1%82%D1%87%D1%91%D1%82.pdf",
		"~tmp_-.bin":    "~tmp_-.bin",
	}
	for in, want := range cases {
		assert.Equal(t, want, EscapeName(in), in)
	}
}
