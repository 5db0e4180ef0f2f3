package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeToCWD(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	defer chdir(t, tmp)()

	got, err := EnsureDir("downloads")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "downloads"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	again, err := EnsureDir("downloads")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureDir_FailsOnFile(t *testing.T) {
	tmp := t.TempDir()
	f := filepath.Join(tmp, "downloads")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureDir(f)
	require.Error(t, err)
}

func TestSafeName(t *testing.T) {
	ok := map[string]string{
		"a.jpg":              "a.jpg",
		"uploaded/b.png":     "b.png",
		"../../etc/passwd":   "passwd",
		`..\..\win\c.gif`:    "c.gif",
		"/media/uploaded/d":  "d",
		"spaces in name.jpg": "spaces in name.jpg",
	}
	for in, want := range ok {
		got, err := SafeName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", ".", "..", "/", "../"} {
		_, err := SafeName(bad)
		assert.True(t, errors.Is(err, ErrUnsafeName), "name %q", bad)
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()

	p, err := WriteAtomic(dir, "a.jpg", strings.NewReader("first"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a.jpg"), p)

	_, err = WriteAtomic(dir, "a.jpg", strings.NewReader("second"))
	require.NoError(t, err)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	_, err := WriteAtomic(filepath.Join(t.TempDir(), "nope"), "a.jpg", strings.NewReader("x"))
	require.Error(t, err)
}
