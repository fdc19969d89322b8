package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatgraph/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userCacheTTL = 24 * time.Hour

// UserRepository abstracts user persistence.
type UserRepository interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpsertUser(ctx context.Context, fields models.UpsertUserFields) (models.User, error)
	SearchUsers(ctx context.Context, search string, exclude primitive.ObjectID, limit int64) ([]models.User, error)
	AddRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error
	RemoveRequest(ctx context.Context, userID, requestID primitive.ObjectID) error
	AcceptRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	AddChat(ctx context.Context, userID, chatID primitive.ObjectID) error
}

// UserRepo is a mongo-backed UserRepository with an optional redis
// read-through cache on lookups by id.
type UserRepo struct {
	collection  *mongo.Collection
	redisClient *redis.Client
}

// NewUserRepo constructs a UserRepo. redisClient may be nil.
func NewUserRepo(database *mongo.Database, redisClient *redis.Client) *UserRepo {
	return &UserRepo{
		collection:  database.Collection("users"),
		redisClient: redisClient,
	}
}

// GetUser retrieves a user from redis or mongo.
func (r *UserRepo) GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User

	if r.redisClient != nil {
		cached, err := r.redisClient.Get(ctx, userCacheKey(id)).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return user, nil
			}
			log.Printf("failed to unmarshal cached user %s", id.Hex())
		}
	}

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	r.cacheUser(ctx, user)
	return user, nil
}

// GetUserByEmail looks a user up by its unique email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpsertUser creates a user by email or returns the existing one. Optional
// fields are applied only on insert and only when supplied.
func (r *UserRepo) UpsertUser(ctx context.Context, fields models.UpsertUserFields) (models.User, error) {
	setOnInsert := bson.M{
		"email":     fields.Email,
		"timestamp": time.Now().UTC(),
		"friends":   []primitive.ObjectID{},
		"chats":     []primitive.ObjectID{},
		"requests":  []primitive.ObjectID{},
	}
	if fields.Name != nil {
		setOnInsert["name"] = *fields.Name
	}
	if fields.Image != nil {
		setOnInsert["image"] = *fields.Image
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"email": fields.Email},
		bson.M{"$setOnInsert": setOnInsert},
		opts,
	).Decode(&user)
	if err != nil {
		return models.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

// SearchUsers matches name or email case-insensitively, excluding the
// searching user.
func (r *UserRepo) SearchUsers(ctx context.Context, search string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{
		"$and": bson.A{
			bson.M{"_id": bson.M{"$ne": exclude}},
			bson.M{"$or": bson.A{
				bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
				bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
			}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddRequest records a pending friend request on the receiver.
func (r *UserRepo) AddRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	return r.updateUser(ctx, receiverID, bson.M{
		"$addToSet": bson.M{"requests": senderID},
	})
}

// RemoveRequest drops a pending request from the user's requests set.
func (r *UserRepo) RemoveRequest(ctx context.Context, userID, requestID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{
		"$pull": bson.M{"requests": requestID},
	})
}

// AcceptRequest adds the requester to the user's friends set and clears the
// pending request in a single document update.
func (r *UserRepo) AcceptRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{
		"$addToSet": bson.M{"friends": requesterID},
		"$pull":     bson.M{"requests": requesterID},
	})
}

// AddFriend adds friendID to the user's friends set.
func (r *UserRepo) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{
		"$addToSet": bson.M{"friends": friendID},
	})
}

// AddChat appends a chat id to the user's chats set.
func (r *UserRepo) AddChat(ctx context.Context, userID, chatID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{
		"$addToSet": bson.M{"chats": chatID},
	})
}

func (r *UserRepo) updateUser(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *UserRepo) cacheUser(ctx context.Context, user models.User) {
	if r.redisClient == nil {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := r.redisClient.Set(ctx, userCacheKey(user.ID), payload, userCacheTTL).Err(); err != nil {
		log.Printf("failed to cache user %s: %v", user.ID.Hex(), err)
	}
}

func (r *UserRepo) invalidate(ctx context.Context, userID primitive.ObjectID) {
	if r.redisClient == nil {
		return
	}
	if err := r.redisClient.Del(ctx, userCacheKey(userID)).Err(); err != nil {
		log.Printf("failed to invalidate user %s: %v", userID.Hex(), err)
	}
}

func userCacheKey(id primitive.ObjectID) string {
	return "user:" + id.Hex()
}
