package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	usersCounterID     = "users"
)

// MongoRepository stores profiles in the "users" collection with the uid as
// _id, and allocates user ids from the counters/users document.
type MongoRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique username and userId indexes.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("profile: create indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, p Profile) error {
	if _, err := r.users.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.duplicateCause(ctx, p.UID)
		}
		return fmt.Errorf("profile: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByUID(ctx context.Context, uid string) (Profile, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: uid}})
}

func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (Profile, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *MongoRepository) FindByUserID(ctx context.Context, userID int64) (Profile, error) {
	return r.findOne(ctx, bson.D{{Key: "userId", Value: userID}})
}

func (r *MongoRepository) Merge(ctx context.Context, uid string, c Changes, updatedAt time.Time) error {
	set := bson.D{{Key: "updatedAt", Value: updatedAt}}
	if c.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *c.Username})
	}
	if c.DisplayName != nil {
		set = append(set, bson.E{Key: "displayName", Value: *c.DisplayName})
	}
	if c.Bio != nil {
		set = append(set, bson.E{Key: "bio", Value: *c.Bio})
	}
	if c.ProfilePicture != nil {
		set = append(set, bson.E{Key: "profilePicture", Value: *c.ProfilePicture})
	}

	res, err := r.users.UpdateByID(ctx, uid, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("profile: merge: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.D{{Key: "username", Value: username}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("profile: count username: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) NextUserID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: usersCounterID}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, errors.Join(ErrCounterFailed, err)
	}
	return counter.Seq, nil
}

func (r *MongoRepository) Delete(ctx context.Context, uid string) error {
	if _, err := r.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: uid}}); err != nil {
		return fmt.Errorf("profile: delete: %w", err)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (Profile, error) {
	var p Profile
	if err := r.users.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: find: %w", err)
	}
	return p, nil
}

// duplicateCause tells a reused uid apart from a taken username.
func (r *MongoRepository) duplicateCause(ctx context.Context, uid string) error {
	if _, err := r.FindByUID(ctx, uid); err == nil {
		return ErrProfileExists
	}
	return ErrUsernameTaken
}
