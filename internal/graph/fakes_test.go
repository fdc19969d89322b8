package graph

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatgraph/internal/models"
	"chatgraph/internal/repositories"
)

// In-memory stand-ins for the mongo repositories, mirroring the update
// semantics the real implementations get from $addToSet/$pull/$position.

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[primitive.ObjectID]models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (f *fakeUserRepo) GetUser(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repositories.ErrUserNotFound
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) UpsertUser(_ context.Context, fields models.UpsertUserFields) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byEmail[fields.Email]; ok {
		return f.users[id], nil
	}
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     fields.Email,
		Timestamp: time.Now().UTC(),
		Friends:   []primitive.ObjectID{},
		Chats:     []primitive.ObjectID{},
		Requests:  []primitive.ObjectID{},
	}
	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Image != nil {
		user.Image = *fields.Image
	}
	f.users[user.ID] = user
	f.byEmail[user.Email] = user.ID
	return user, nil
}

func (f *fakeUserRepo) SearchUsers(_ context.Context, search string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	needle := strings.ToLower(search)
	var matches []models.User
	for id, user := range f.users {
		if id == exclude {
			continue
		}
		if strings.Contains(strings.ToLower(user.Name), needle) ||
			strings.Contains(strings.ToLower(user.Email), needle) {
			matches = append(matches, user)
		}
		if int64(len(matches)) == limit {
			break
		}
	}
	return matches, nil
}

func (f *fakeUserRepo) AddRequest(_ context.Context, receiverID, senderID primitive.ObjectID) error {
	return f.update(receiverID, func(user *models.User) {
		user.Requests = addToSet(user.Requests, senderID)
	})
}

func (f *fakeUserRepo) RemoveRequest(_ context.Context, userID, requestID primitive.ObjectID) error {
	return f.update(userID, func(user *models.User) {
		user.Requests = pull(user.Requests, requestID)
	})
}

func (f *fakeUserRepo) AcceptRequest(_ context.Context, userID, requesterID primitive.ObjectID) error {
	return f.update(userID, func(user *models.User) {
		user.Friends = addToSet(user.Friends, requesterID)
		user.Requests = pull(user.Requests, requesterID)
	})
}

func (f *fakeUserRepo) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	return f.update(userID, func(user *models.User) {
		user.Friends = addToSet(user.Friends, friendID)
	})
}

func (f *fakeUserRepo) AddChat(_ context.Context, userID, chatID primitive.ObjectID) error {
	return f.update(userID, func(user *models.User) {
		user.Chats = addToSet(user.Chats, chatID)
	})
}

func (f *fakeUserRepo) update(userID primitive.ObjectID, apply func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	apply(&user)
	f.users[userID] = user
	return nil
}

type fakeChatRepo struct {
	mu    sync.Mutex
	chats map[primitive.ObjectID]models.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[primitive.ObjectID]models.Chat)}
}

func (f *fakeChatRepo) GetChat(_ context.Context, chatID primitive.ObjectID) (models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok {
		return models.Chat{}, repositories.ErrChatNotFound
	}
	return chat, nil
}

func (f *fakeChatRepo) GetChatPage(ctx context.Context, chatID primitive.ObjectID, offset, limit int64) (models.Chat, error) {
	chat, err := f.GetChat(ctx, chatID)
	if err != nil {
		return models.Chat{}, err
	}
	if offset > int64(len(chat.Messages)) {
		offset = int64(len(chat.Messages))
	}
	end := offset + limit
	if end > int64(len(chat.Messages)) {
		end = int64(len(chat.Messages))
	}
	chat.Messages = chat.Messages[offset:end]
	return chat, nil
}

func (f *fakeChatRepo) GetChatPreview(ctx context.Context, chatID primitive.ObjectID) (models.Chat, error) {
	return f.GetChatPage(ctx, chatID, 0, 1)
}

func (f *fakeChatRepo) FindByParticipants(_ context.Context, userIDs []primitive.ObjectID) (models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, chat := range f.chats {
		matched := true
		for _, id := range userIDs {
			if !chat.HasParticipant(id) {
				matched = false
				break
			}
		}
		if matched {
			return chat, nil
		}
	}
	return models.Chat{}, repositories.ErrChatNotFound
}

func (f *fakeChatRepo) CreateChat(_ context.Context, userIDs []primitive.ObjectID) (models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat := models.Chat{
		ID:       primitive.NewObjectID(),
		Users:    userIDs,
		Messages: []models.Message{},
	}
	f.chats[chat.ID] = chat
	return chat, nil
}

func (f *fakeChatRepo) PrependMessage(_ context.Context, chatID primitive.ObjectID, msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok {
		return repositories.ErrChatNotFound
	}
	chat.Messages = append([]models.Message{msg}, chat.Messages...)
	f.chats[chatID] = chat
	return nil
}

func (f *fakeChatRepo) GetMessage(_ context.Context, messageID primitive.ObjectID) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, chat := range f.chats {
		for _, msg := range chat.Messages {
			if msg.ID == messageID {
				return msg, nil
			}
		}
	}
	return models.Message{}, repositories.ErrMessageNotFound
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
