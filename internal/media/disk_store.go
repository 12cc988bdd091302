package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps objects under <root>/<bucket>/ for local development. Its
// public URLs are <baseURL>/<bucket>/<key>.
type DiskStore struct {
	root    string
	bucket  string
	baseURL string
}

func NewDiskStore(root, bucket, baseURL string) (*DiskStore, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &DiskStore{root: root, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.root, s.bucket, filepath.FromSlash(key))
}

func (s *DiskStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrObjectExists
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStore) PublicURL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}
