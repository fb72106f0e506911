package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDisk(t *testing.T) *localDisk {
	t.Helper()
	return &localDisk{root: t.TempDir()}
}

func TestLocalDisk_PutGet(t *testing.T) {
	d := tempDisk(t)

	require.NoError(t, d.Put("uploads/receipt.jpg", []byte("jpeg-bytes")))

	got, err := d.Get("uploads/receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), got)
}

func TestLocalDisk_PutStream(t *testing.T) {
	d := tempDisk(t)

	require.NoError(t, d.PutStream("uploads/a.png", bytes.NewReader([]byte("png"))))

	rc, err := d.GetStream("uploads/a.png")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
}

func TestLocalDisk_ExistsAndSize(t *testing.T) {
	d := tempDisk(t)

	assert.False(t, d.Exists("uploads/missing.jpg"))

	require.NoError(t, d.Put("uploads/x.jpg", []byte("12345")))
	assert.True(t, d.Exists("uploads/x.jpg"))

	size, err := d.Size("uploads/x.jpg")
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}

func TestLocalDisk_Delete(t *testing.T) {
	d := tempDisk(t)

	require.NoError(t, d.Put("uploads/x.jpg", []byte("x")))
	require.NoError(t, d.Delete("uploads/x.jpg"))
	assert.False(t, d.Exists("uploads/x.jpg"))

	// Deleting a missing file is not an error.
	assert.NoError(t, d.Delete("uploads/x.jpg"))
}

func TestLocalDisk_URL(t *testing.T) {
	relative := &localDisk{root: t.TempDir()}
	assert.Equal(t, "/uploads/receipt.jpg", relative.URL("uploads/receipt.jpg"))

	absolute := &localDisk{root: t.TempDir(), baseURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/uploads/receipt.jpg", absolute.URL("uploads/receipt.jpg"))
}

func TestManagerDefaultDisk(t *testing.T) {
	d := tempDisk(t)
	RegisterDisk("testdisk", d)
	SetDefault("testdisk")

	require.NoError(t, Put("uploads/m.jpg", []byte("m")))
	assert.True(t, Exists("uploads/m.jpg"))

	got, err := Get("uploads/m.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), got)

	require.NoError(t, Delete("uploads/m.jpg"))
	assert.False(t, Exists("uploads/m.jpg"))
}
