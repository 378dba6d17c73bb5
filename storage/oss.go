package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage adalah backend Aliyun OSS untuk file bukti monev.
type OSSStorage struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	prefix     string
}

// NewOSSStorageFromEnv membangun klien OSS dari environment:
// ALI_OSS_ENDPOINT, ALI_OSS_ACCESS_KEY, ALI_OSS_SECRET_KEY, ALI_OSS_BUCKET,
// opsional ALI_OSS_PREFIX (contoh: "monev").
func NewOSSStorageFromEnv() (*OSSStorage, error) {
	endpoint := os.Getenv("ALI_OSS_ENDPOINT")
	ak := os.Getenv("ALI_OSS_ACCESS_KEY")
	sk := os.Getenv("ALI_OSS_SECRET_KEY")
	bucketName := os.Getenv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	client, err := oss.New(endpoint, ak, sk)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	return &OSSStorage{
		bucket:     bkt,
		endpoint:   endpoint,
		bucketName: bucketName,
		prefix:     strings.Trim(os.Getenv("ALI_OSS_PREFIX"), "/"),
	}, nil
}

func (s *OSSStorage) Put(ctx context.Context, r io.Reader, size int64, contentType, key string) (string, error) {
	fullKey := s.fullKey(key)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	}
	if err := s.bucket.PutObject(fullKey, r, opts...); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.publicURL(fullKey), nil
}

func (s *OSSStorage) Remove(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}
	return s.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStorage) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *OSSStorage) publicURL(key string) string {
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}

func (s *OSSStorage) keyFromURL(publicURL string) (string, error) {
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("tidak bisa mengambil key dari url: %s", publicURL)
}
