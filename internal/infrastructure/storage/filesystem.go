package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

// FilesystemStore keeps objects under baseDir/bucket/key.
type FilesystemStore struct {
	root    string
	bucket  string
	baseURL string
}

func NewFilesystemStore(baseDir, bucket, baseURL string) (*FilesystemStore, error) {
	root := filepath.Join(baseDir, bucket)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FilesystemStore{root: root, bucket: bucket, baseURL: baseURL}, nil
}

func (s *FilesystemStore) path(key string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key %q escapes the bucket", domain.ErrInvalidFileName, key)
	}
	return full, nil
}

// Put writes to a temporary file and renames it into place, so readers never
// see a partial object and an existing key is replaced atomically.
func (s *FilesystemStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("write %s: short body, got %d of %d bytes", key, n, size)
	}
	return os.Rename(tmp.Name(), full)
}

func (s *FilesystemStore) PublicURL(key string) string {
	return PublicURL(s.baseURL, s.bucket, key)
}

// Bucket returns the bucket name objects are served under.
func (s *FilesystemStore) Bucket() string { return s.bucket }

func (s *FilesystemStore) Open(_ context.Context, key string) (*ports.StoredObject, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, domain.ErrObjectNotFound
	}
	return &ports.StoredObject{
		Body:        f,
		Size:        info.Size(),
		ContentType: contentType(full),
		ModTime:     info.ModTime(),
	}, nil
}

func contentType(name string) string {
	if ct, ok := domain.ContentTypeFor(name); ok {
		return ct
	}
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
