package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/infrastructure/storage"
)

const defaultUploadTimeout = 5 * time.Minute

// GridFSStore keeps uploaded objects in a GridFS bucket. Keys are GridFS file
// names; writing an existing key replaces it.
type GridFSStore struct {
	db      *mongo.Database
	bucket  string
	baseURL string
	timeout time.Duration
}

func NewGridFSStore(db *mongo.Database, bucket, baseURL string, timeout time.Duration) *GridFSStore {
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return &GridFSStore{db: db, bucket: bucket, baseURL: baseURL, timeout: timeout}
}

func (s *GridFSStore) open() (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", s.bucket, err)
	}
	return b, nil
}

func (s *GridFSStore) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(s.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		d = ctxDeadline
	}
	return d
}

func (s *GridFSStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := s.open()
	if err != nil {
		return err
	}
	if err := b.SetWriteDeadline(s.deadline(ctx)); err != nil {
		return err
	}
	if err := b.SetReadDeadline(s.deadline(ctx)); err != nil {
		return err
	}

	meta := bson.M{"content_type": contentType, "size": size}
	id, err := b.UploadFromStream(key, r, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return wrapTimeout(fmt.Errorf("upload %s: %w", key, err))
	}

	// Drop older revisions so the key keeps a single object.
	cur, err := b.Find(bson.M{"filename": key, "_id": bson.M{"$ne": id}})
	if err != nil {
		return wrapTimeout(fmt.Errorf("list revisions of %s: %w", key, err))
	}
	var old []struct {
		ID interface{} `bson:"_id"`
	}
	if err := cur.All(ctx, &old); err != nil {
		return wrapTimeout(fmt.Errorf("decode revisions of %s: %w", key, err))
	}
	for _, f := range old {
		if err := b.Delete(f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return wrapTimeout(fmt.Errorf("delete old revision of %s: %w", key, err))
		}
	}
	return nil
}

func (s *GridFSStore) PublicURL(key string) string {
	return storage.PublicURL(s.baseURL, s.bucket, key)
}

// Bucket returns the bucket name objects are served under.
func (s *GridFSStore) Bucket() string { return s.bucket }

// Open streams the latest revision of key.
func (s *GridFSStore) Open(ctx context.Context, key string) (*ports.StoredObject, error) {
	b, err := s.open()
	if err != nil {
		return nil, err
	}
	if err := b.SetReadDeadline(s.deadline(ctx)); err != nil {
		return nil, err
	}

	stream, err := b.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, wrapTimeout(fmt.Errorf("open %s: %w", key, err))
	}

	f := stream.GetFile()
	obj := &ports.StoredObject{
		Body:    stream,
		Size:    f.Length,
		ModTime: f.UploadDate,
	}
	if ct, ok := f.Metadata.Lookup("content_type").StringValueOK(); ok {
		obj.ContentType = ct
	}
	return obj, nil
}

func wrapTimeout(err error) error {
	if mongo.IsTimeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}
