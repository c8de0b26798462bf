package view

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	return path
}

func TestOpenAndBytes(t *testing.T) {
	path := writeTemp(t, []byte("hello world"))

	v, err := Open(path)
	require.NoError(t, err)
	defer v.Close()

	require.EqualValues(t, 11, v.Size())

	b, err := v.Bytes(0, 5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(b))

	b, err = v.Bytes(6, 11)
	require.NoError(t, err)
	require.Equal(t, "world", string(b))
}

func TestOpenEmptyFile(t *testing.T) {
	path := writeTemp(t, nil)

	v, err := Open(path)
	require.NoError(t, err)
	defer v.Close()

	require.EqualValues(t, 0, v.Size())
	b, err := v.Bytes(0, 0)
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestBytesRejectsOutOfRange(t *testing.T) {
	path := writeTemp(t, []byte("abc"))

	v, err := Open(path)
	require.NoError(t, err)
	defer v.Close()

	_, err = v.Bytes(0, 100)
	require.Error(t, err)

	_, err = v.Bytes(-1, 2)
	require.Error(t, err)

	_, err = v.Bytes(2, 1)
	require.Error(t, err)
}

func TestAt(t *testing.T) {
	path := writeTemp(t, []byte("xyz"))

	v, err := Open(path)
	require.NoError(t, err)
	defer v.Close()

	b, ok := v.At(1)
	require.True(t, ok)
	require.Equal(t, byte('y'), b)

	_, ok = v.At(10)
	require.False(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	path := writeTemp(t, []byte("abc"))

	v, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, v.Close())
	require.NoError(t, v.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}
