package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatgraph/internal/models"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
)

// ChatRepository abstracts chat persistence. Messages live embedded in their
// chat document, newest-first.
type ChatRepository interface {
	GetChat(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error)
	GetChatPage(ctx context.Context, chatID primitive.ObjectID, offset, limit int64) (models.Chat, error)
	GetChatPreview(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error)
	FindByParticipants(ctx context.Context, userIDs []primitive.ObjectID) (models.Chat, error)
	CreateChat(ctx context.Context, userIDs []primitive.ObjectID) (models.Chat, error)
	PrependMessage(ctx context.Context, chatID primitive.ObjectID, msg models.Message) error
	GetMessage(ctx context.Context, messageID primitive.ObjectID) (models.Message, error)
}

// ChatRepo is a mongo implementation of ChatRepository.
type ChatRepo struct {
	collection *mongo.Collection
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(database *mongo.Database) *ChatRepo {
	return &ChatRepo{collection: database.Collection("chats")}
}

// GetChat fetches a chat by id with all messages.
func (r *ChatRepo) GetChat(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error) {
	return r.findChat(ctx, bson.M{"_id": chatID}, nil)
}

// GetChatPage fetches a chat with its message sequence sliced from offset for
// up to limit entries, newest-first order preserved.
func (r *ChatRepo) GetChatPage(ctx context.Context, chatID primitive.ObjectID, offset, limit int64) (models.Chat, error) {
	projection := bson.M{"messages": bson.M{"$slice": bson.A{offset, limit}}}
	return r.findChat(ctx, bson.M{"_id": chatID}, projection)
}

// GetChatPreview fetches a chat with only its most recent message.
func (r *ChatRepo) GetChatPreview(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error) {
	projection := bson.M{"messages": bson.M{"$slice": 1}}
	return r.findChat(ctx, bson.M{"_id": chatID}, projection)
}

// FindByParticipants returns the chat whose member set contains all given
// ids. At most one such chat exists per pair.
func (r *ChatRepo) FindByParticipants(ctx context.Context, userIDs []primitive.ObjectID) (models.Chat, error) {
	return r.findChat(ctx, bson.M{"users": bson.M{"$all": userIDs}}, nil)
}

// CreateChat inserts an empty chat for the given participants.
func (r *ChatRepo) CreateChat(ctx context.Context, userIDs []primitive.ObjectID) (models.Chat, error) {
	chat := models.Chat{
		ID:       primitive.NewObjectID(),
		Users:    userIDs,
		Messages: []models.Message{},
	}
	if _, err := r.collection.InsertOne(ctx, chat); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// PrependMessage pushes msg to the front of the chat's message sequence so
// storage order stays most-recent-first.
func (r *ChatRepo) PrependMessage(ctx context.Context, chatID primitive.ObjectID, msg models.Message) error {
	update := bson.M{
		"$push": bson.M{
			"messages": bson.M{
				"$each":     bson.A{msg},
				"$position": 0,
			},
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// GetMessage locates an embedded message by id across chats.
func (r *ChatRepo) GetMessage(ctx context.Context, messageID primitive.ObjectID) (models.Message, error) {
	projection := bson.M{"messages": bson.M{"$elemMatch": bson.M{"_id": messageID}}}
	chat, err := r.findChat(ctx, bson.M{"messages._id": messageID}, projection)
	if errors.Is(err, ErrChatNotFound) {
		return models.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	if len(chat.Messages) == 0 {
		return models.Message{}, ErrMessageNotFound
	}
	return chat.Messages[0], nil
}

func (r *ChatRepo) findChat(ctx context.Context, filter bson.M, projection bson.M) (models.Chat, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var chat models.Chat
	err := r.collection.FindOne(ctx, filter, opts).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Chat{}, ErrChatNotFound
	}
	if err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}
