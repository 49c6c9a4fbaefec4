package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// ViewRepository is the append-only play log.
type ViewRepository struct {
	col *mongo.Collection
}

func NewViewRepository(db *mongo.Database) *ViewRepository {
	return &ViewRepository{col: db.Collection(collectionViews)}
}

func (r *ViewRepository) Insert(ctx context.Context, e *domain.ViewEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":    e.UserID,
		"video_id":   e.VideoID,
		"created_at": e.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert view: %w", err)
	}
	return nil
}

// CountByVideo groups the play log by video id.
func (r *ViewRepository) CountByVideo(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$video_id"},
			{Key: "plays", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate views: %w", err)
	}

	var rows []struct {
		VideoID string `bson:"_id"`
		Plays   int64  `bson:"plays"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode view counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.VideoID] = row.Plays
	}
	return counts, nil
}
