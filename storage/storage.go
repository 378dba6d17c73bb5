// Package storage menyediakan gateway file bukti monev di balik kontrak
// put/remove yang mengembalikan URL. Backend bisa disk lokal (dev) atau
// Aliyun OSS (produksi), dipilih lewat STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// FileStorage adalah kontrak yang dipakai Record Ledger:
// Put menulis file dan mengembalikan URL publik, Remove menghapus by URL.
// Urutan penulisan selalu "Put sukses dulu, baru row database dibuat" supaya
// tidak ada row yang menunjuk URL yang tidak pernah tertulis.
type FileStorage interface {
	Put(ctx context.Context, r io.Reader, size int64, contentType, key string) (url string, err error)
	Remove(ctx context.Context, url string) error
}

// ObjectKey membentuk key objek untuk satu file bukti:
// <userID>/<semester>/<kategori>/<uuid><ext>. Nama asli file tidak dipakai
// supaya tidak ada tabrakan atau karakter aneh di path.
func ObjectKey(userID uuid.UUID, semester int, category, filename string) string {
	return fmt.Sprintf("%s/%d/%s/%s%s",
		userID.String(), semester, category, uuid.NewString(), path.Ext(filename))
}

// OpTimeout membaca STORAGE_TIMEOUT_SECONDS (default 30 detik). Timeout ini
// sengaja terpisah dari timeout database: latensi object storage tidak ada
// hubungannya dengan latensi Postgres.
func OpTimeout() time.Duration {
	if v := os.Getenv("STORAGE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 30 * time.Second
}

// NewFromEnv memilih backend berdasarkan STORAGE_DRIVER:
// "oss" -> Aliyun OSS, selain itu -> disk lokal.
func NewFromEnv() (FileStorage, error) {
	if os.Getenv("STORAGE_DRIVER") == "oss" {
		return NewOSSStorageFromEnv()
	}
	return NewLocalStorageFromEnv()
}
