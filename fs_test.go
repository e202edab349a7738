package baked

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gzipRecord builds a Record the way the loader does: content gzipped,
// Compressed false.
func gzipRecord(t *testing.T, path string, content []byte) Record {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(content)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return Record{
		Path: path,
		Size: int64(len(content)),
		Data: buf.String(),
	}
}

// rawRecord builds a pre-compressed Record: bytes stored verbatim.
func rawRecord(path string, content []byte) Record {
	return Record{
		Path:       path,
		Size:       int64(len(content)),
		Compressed: true,
		Data:       string(content),
	}
}

func testFS(t *testing.T) *FS {
	t.Helper()
	f := New()
	require.NoError(t, f.Add(gzipRecord(t, "/test.txt", []byte("hello world"))))
	require.NoError(t, f.Add(gzipRecord(t, "/sub/data.bin", []byte{0x00, 0x01, 0xFF, 0xFE})))
	require.NoError(t, f.Add(rawRecord("/archive.gz", []byte("raw gzip payload"))))
	return f
}

func TestAddDuplicatePath(t *testing.T) {
	t.Parallel()

	f := New()
	require.NoError(t, f.Add(gzipRecord(t, "/test.txt", []byte("first"))))

	err := f.Add(gzipRecord(t, "/test.txt", []byte("second")))
	require.ErrorIs(t, err, ErrDuplicatePath)
	assert.Contains(t, err.Error(), "/test.txt")

	// The first record stays retrievable and intact.
	file, err := f.Get("/test.txt")
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
	assert.Equal(t, 1, f.Len())
}

func TestMustAddPanicsOnDuplicate(t *testing.T) {
	t.Parallel()

	f := New()
	f.MustAdd(gzipRecord(t, "/a", []byte("a")))
	assert.PanicsWithError(t, "baked: duplicate path: /a", func() {
		f.MustAdd(gzipRecord(t, "/a", []byte("b")))
	})
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	empty := New()
	_, err := empty.Get("nope")
	require.ErrorIs(t, err, ErrNotExist)

	populated := testFS(t)
	_, err = populated.Get("nope")
	require.ErrorIs(t, err, ErrNotExist)

	_, ok := empty.Lookup("nope")
	assert.False(t, ok)
	_, ok = populated.Lookup("nope")
	assert.False(t, ok)
}

func TestGetNormalizesPath(t *testing.T) {
	t.Parallel()

	f := testFS(t)
	for _, path := range []string{"/test.txt", "test.txt", "  /test.txt  ", "\ttest.txt\n"} {
		file, err := f.Get(path)
		require.NoError(t, err, "Get(%q)", path)
		assert.Equal(t, "/test.txt", file.Name())
		require.NoError(t, file.Close())
	}
}

func TestRecordsSnapshot(t *testing.T) {
	t.Parallel()

	f := testFS(t)
	records := f.Records()
	require.Len(t, records, 3)
	// Insertion order is preserved.
	assert.Equal(t, "/test.txt", records[0].Path)
	assert.Equal(t, "/sub/data.bin", records[1].Path)
	assert.Equal(t, "/archive.gz", records[2].Path)

	// Mutating the snapshot must not affect the registry.
	records[0].Path = "/mutated"
	fresh, err := f.Get("/test.txt")
	require.NoError(t, err)
	require.NoError(t, fresh.Close())
}

func TestWithFileClosesOnError(t *testing.T) {
	t.Parallel()

	f := testFS(t)
	boom := errors.New("boom")

	var handle *File
	err := f.WithFile("/test.txt", func(file *File) error {
		handle = file
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.True(t, handle.Closed())
}

func TestWithFileClosesOnPanic(t *testing.T) {
	t.Parallel()

	f := testFS(t)

	var handle *File
	func() {
		defer func() {
			require.NotNil(t, recover())
		}()
		_ = f.WithFile("/test.txt", func(file *File) error {
			handle = file
			panic("boom")
		})
	}()
	require.NotNil(t, handle)
	assert.True(t, handle.Closed())
}

func TestWithFileMissing(t *testing.T) {
	t.Parallel()

	f := testFS(t)
	called := false
	err := f.WithFile("/nope", func(*File) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrNotExist)
	assert.False(t, called)
}

func TestOpenImplementsFSFS(t *testing.T) {
	t.Parallel()

	f := testFS(t)

	file, err := f.Open("test.txt")
	require.NoError(t, err)
	defer file.Close()

	info, err := file.Stat()
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len("hello world")), info.Size())
	assert.False(t, info.IsDir())

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}

func TestOpenInvalidAndMissingNames(t *testing.T) {
	t.Parallel()

	f := testFS(t)

	_, err := f.Open("../escape")
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.ErrorIs(t, pathErr.Err, fs.ErrInvalid)

	_, err = f.Open("missing.txt")
	require.ErrorAs(t, err, &pathErr)
	assert.ErrorIs(t, pathErr.Err, fs.ErrNotExist)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	f := testFS(t)

	content, err := f.ReadFile("sub/data.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0xFF, 0xFE}, content)

	_, err = f.ReadFile("missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
