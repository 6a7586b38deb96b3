package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UserRepository stores identities. Emails are unique and stored normalized.
type UserRepository interface {
	Create(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByUID(ctx context.Context, uid string) (User, error)
	Delete(ctx context.Context, uid string) error
}

// MemoryUserRepository keeps identities in process memory.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.users[u.UID] = u
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *MemoryUserRepository) FindByUID(_ context.Context, uid string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[uid]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, uid)
	return nil
}

// MongoUserRepository stores identities in the "identities" collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("identities")}
}

// EnsureIndexes creates the unique email index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("identity: create indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u User) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("identity: insert: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoUserRepository) FindByUID(ctx context.Context, uid string) (User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: uid}})
}

func (r *MongoUserRepository) Delete(ctx context.Context, uid string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: uid}}); err != nil {
		return fmt.Errorf("identity: delete: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (User, error) {
	var u User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("identity: find: %w", err)
	}
	return u, nil
}
