package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// ProfileRepository stores one profile document per user, keyed by user id.
type ProfileRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		coll:  db.Collection(collectionProfiles),
		users: db.Collection(collectionUsers),
	}
}

type profileDoc struct {
	ID        string `bson:"_id"`
	IsAdmin   bool   `bson:"is_admin"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &domain.Profile{ID: doc.ID, IsAdmin: doc.IsAdmin, CreatedAt: unixToTime(doc.CreatedAt)}, nil
}

// Insert creates the profile. Mongo has no foreign keys, so the user document
// is checked first; a missing user is reported as not yet visible.
func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"_id": p.ID})
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if err := checkUserVisible(n); err != nil {
		return err
	}

	doc := profileDoc{ID: p.ID, IsAdmin: p.IsAdmin, CreatedAt: p.CreatedAt.Unix()}
	_, err = r.coll.InsertOne(ctx, doc)
	return classifyProfileInsert(err)
}

func checkUserVisible(userCount int64) error {
	if userCount == 0 {
		return domain.ErrIdentityNotVisible
	}
	return nil
}

// classifyProfileInsert maps an InsertOne error onto the profile sentinels.
func classifyProfileInsert(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrProfileExists
	}
	return fmt.Errorf("insert profile: %w", err)
}

func (r *ProfileRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_admin": isAdmin}})
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
