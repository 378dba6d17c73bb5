package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage menyimpan file di disk di bawah baseDir dan melayani URL
// berbentuk <baseURL>/uploads/<key>. Dipakai untuk development; produksi
// memakai OSS.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorageFromEnv membaca UPLOAD_DIR (default "uploads") dan
// APP_BASE_URL (default "http://localhost:8080").
func NewLocalStorageFromEnv() (*LocalStorage, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return NewLocalStorage(dir, baseURL)
}

// NewLocalStorage membuat LocalStorage dan memastikan baseDir ada.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("buat direktori upload: %w", err)
	}
	return &LocalStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Put(ctx context.Context, r io.Reader, size int64, contentType, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("buat direktori: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("buat file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		// file setengah jadi tidak boleh tertinggal
		_ = os.Remove(dst)
		return "", fmt.Errorf("tulis file: %w", err)
	}

	return s.baseURL + "/uploads/" + key, nil
}

func (s *LocalStorage) Remove(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key))); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func (s *LocalStorage) keyFromURL(url string) (string, error) {
	prefix := s.baseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url bukan milik storage lokal: %s", url)
	}
	key := strings.TrimPrefix(url, prefix)
	// jangan biarkan key keluar dari baseDir
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("key tidak valid: %s", key)
	}
	return key, nil
}
