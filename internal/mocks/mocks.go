package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatgraph/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpsertUser(ctx context.Context, fields models.UpsertUserFields) (models.User, error) {
	args := m.Called(ctx, fields)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) SearchUsers(ctx context.Context, search string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	args := m.Called(ctx, search, exclude, limit)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) AddRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

func (m *UserRepositoryMock) RemoveRequest(ctx context.Context, userID, requestID primitive.ObjectID) error {
	args := m.Called(ctx, userID, requestID)
	return args.Error(0)
}

func (m *UserRepositoryMock) AcceptRequest(ctx context.Context, userID, requesterID primitive.ObjectID) error {
	args := m.Called(ctx, userID, requesterID)
	return args.Error(0)
}

func (m *UserRepositoryMock) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *UserRepositoryMock) AddChat(ctx context.Context, userID, chatID primitive.ObjectID) error {
	args := m.Called(ctx, userID, chatID)
	return args.Error(0)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChatPage(ctx context.Context, chatID primitive.ObjectID, offset, limit int64) (models.Chat, error) {
	args := m.Called(ctx, chatID, offset, limit)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChatPreview(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) FindByParticipants(ctx context.Context, userIDs []primitive.ObjectID) (models.Chat, error) {
	args := m.Called(ctx, userIDs)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) CreateChat(ctx context.Context, userIDs []primitive.ObjectID) (models.Chat, error) {
	args := m.Called(ctx, userIDs)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) PrependMessage(ctx context.Context, chatID primitive.ObjectID, msg models.Message) error {
	args := m.Called(ctx, chatID, msg)
	return args.Error(0)
}

func (m *ChatRepositoryMock) GetMessage(ctx context.Context, messageID primitive.ObjectID) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}
