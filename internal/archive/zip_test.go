package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackThenWalk(t *testing.T) {
	data, err := Pack([]Entry{
		{Name: "page_1.jpg", Bytes: []byte("one")},
		{Name: "page_2.jpg", Bytes: []byte("two")},
		{Name: "page_3.jpg", Bytes: []byte("three")},
	})
	require.NoError(t, err)

	var names []string
	var bodies []string
	err = Walk(bytes.NewReader(data), int64(len(data)), func(name string, rc io.Reader) error {
		b, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		names = append(names, name)
		bodies = append(bodies, string(b))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"page_1.jpg", "page_2.jpg", "page_3.jpg"}, names)
	assert.Equal(t, []string{"one", "two", "three"}, bodies)
}

func TestWalkSkipsDirectories(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("docs/")
	require.NoError(t, err)
	w, err := zw.Create("docs/a.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("a"))
	require.NoError(t, zw.Close())

	var names []string
	err = Walk(bytes.NewReader(buf.Bytes()), int64(buf.Len()), func(name string, _ io.Reader) error {
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/a.txt"}, names)
}

func TestWalkStopsOnError(t *testing.T) {
	data, err := Pack([]Entry{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = Walk(bytes.NewReader(data), int64(len(data)), func(string, io.Reader) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestWalkNotAZip(t *testing.T) {
	data := []byte("plain text")
	err := Walk(bytes.NewReader(data), int64(len(data)), func(string, io.Reader) error { return nil })
	assert.Error(t, err)
}
