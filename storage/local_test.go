package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return s
}

func TestLocalStoragePutAndRemove(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	key := "user-1/3/Seminar/bukti.pdf"
	url, err := s.Put(ctx, strings.NewReader("isi file"), 8, "application/pdf", key)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/"+key, url)

	content, err := os.ReadFile(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "isi file", string(content))

	require.NoError(t, s.Remove(ctx, url))
	_, err = os.Stat(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRemoveMissingFile(t *testing.T) {
	s := newTestStorage(t)

	// file yang sudah tidak ada bukan error: Remove memang best-effort
	err := s.Remove(context.Background(), "http://localhost:8080/uploads/tidak/ada.pdf")
	assert.NoError(t, err)
}

func TestLocalStorageRemoveForeignURL(t *testing.T) {
	s := newTestStorage(t)

	err := s.Remove(context.Background(), "https://bucket.oss.example.com/file.pdf")
	assert.Error(t, err)
}

func TestLocalStorageRemoveRejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	err := s.Remove(context.Background(), "http://localhost:8080/uploads/../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalStoragePutCancelledContext(t *testing.T) {
	s := newTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, strings.NewReader("x"), 1, "image/png", "a/b/c.png")
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	userID := uuid.New()

	key := ObjectKey(userID, 3, "Seminar", "sertifikat seminar.PDF")

	parts := strings.Split(key, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, userID.String(), parts[0])
	assert.Equal(t, "3", parts[1])
	assert.Equal(t, "Seminar", parts[2])
	assert.True(t, strings.HasSuffix(parts[3], ".PDF"))

	// nama file asli tidak boleh ikut ke dalam key
	assert.NotContains(t, key, "sertifikat")

	other := ObjectKey(userID, 3, "Seminar", "sertifikat seminar.PDF")
	assert.NotEqual(t, key, other)
}
