package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidshare/vidshare/internal/core/domain"
)

type VideoRepository struct {
	col *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{col: db.Collection(collectionVideos)}
}

type videoDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	FileName    string    `bson:"file_name"`
	URL         string    `bson:"url"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Tags        []string  `bson:"tags"`
	Category    string    `bson:"category"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toVideoDoc(v *domain.VideoRecord) videoDoc {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return videoDoc{
		ID:          v.ID,
		UserID:      v.UserID,
		FileName:    v.FileName,
		URL:         v.URL,
		Title:       v.Title,
		Description: v.Description,
		Tags:        tags,
		Category:    v.Category,
		CreatedAt:   v.CreatedAt.UTC(),
	}
}

func (d videoDoc) toDomain() domain.VideoRecord {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.VideoRecord{
		ID:          d.ID,
		UserID:      d.UserID,
		FileName:    d.FileName,
		URL:         d.URL,
		Title:       d.Title,
		Description: d.Description,
		Tags:        tags,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// Create inserts a new video document and returns its generated id.
func (r *VideoRepository) Create(ctx context.Context, v *domain.VideoRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toVideoDoc(v)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert video: %w", err)
	}
	return doc.ID, nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.VideoRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc videoDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	v := doc.toDomain()
	return &v, nil
}

// List returns videos newest first. An empty ownerID lists every video.
func (r *VideoRepository) List(ctx context.Context, ownerID string) ([]domain.VideoRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if ownerID != "" {
		filter["user_id"] = ownerID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	var docs []videoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}

	out := make([]domain.VideoRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
