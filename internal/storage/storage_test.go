package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readPlaceholder(t *testing.T, name string) []byte {
	t.Helper()
	data, err := placeholders.ReadFile("placeholders/" + name)
	require.NoError(t, err)
	return data
}

func TestDetectImage(t *testing.T) {
	pngData := readPlaceholder(t, "default.png")
	jpegData := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 16)...)

	tests := []struct {
		name     string
		data     []byte
		max      int64
		wantType string
		wantErr  error
	}{
		{name: "png", data: pngData, max: 1 << 20, wantType: "image/png"},
		{name: "jpeg", data: jpegData, max: 1 << 20, wantType: "image/jpeg"},
		{name: "text", data: []byte("hello world"), max: 1 << 20, wantErr: ErrUnsupportedImage},
		{name: "too large", data: pngData, max: 10, wantErr: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload := &Upload{Filename: "x", Data: tt.data}
			err := DetectImage(upload, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, upload.ContentType)
		})
	}
}

func TestIsDefault(t *testing.T) {
	assert.True(t, IsDefault("default.png"))
	assert.True(t, IsDefault("project-image.png"))
	assert.True(t, IsDefault(`C:\app\public\default.png`))
	assert.True(t, IsDefault("/srv/public/project-image.png"))
	assert.False(t, IsDefault("2f1c.png"))
}

func TestDiskStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	upload := &Upload{Filename: "avatar.png", Data: readPlaceholder(t, "default.png")}
	require.NoError(t, DetectImage(upload, 1<<20))

	key, err := store.Save(ctx, upload)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(key))
	assert.FileExists(t, filepath.Join(dir, key))

	rc, contentType, err := store.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, upload.Data, got)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Deleting twice is not an error.
	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStore_Placeholders(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	rc, contentType, err := store.Open(ctx, "default.png")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", contentType)

	// Placeholders are shared and never removed.
	require.NoError(t, store.Delete(ctx, "project-image.png"))
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, store.Delete(context.Background(), "a/b.png"), ErrInvalidKey)
}
