package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatgraph/internal/models"
)

// UserResolver resolves the User type. Friends, chats and requests are
// resolved lazily from the referenced ids; a dangling reference surfaces as a
// resolution error rather than being skipped.
type UserResolver struct {
	r    *Resolver
	user models.User
}

func (u *UserResolver) ID() graphql.ID {
	return graphql.ID(u.user.ID.Hex())
}

func (u *UserResolver) Name() *string {
	if u.user.Name == "" {
		return nil
	}
	name := u.user.Name
	return &name
}

func (u *UserResolver) Email() string {
	return u.user.Email
}

func (u *UserResolver) Image() *string {
	if u.user.Image == "" {
		return nil
	}
	image := u.user.Image
	return &image
}

func (u *UserResolver) Timestamp() string {
	return formatTime(u.user.Timestamp)
}

func (u *UserResolver) Friends(ctx context.Context) ([]*UserResolver, error) {
	return u.r.resolveUsers(ctx, u.user.Friends)
}

func (u *UserResolver) Requests(ctx context.Context) ([]*UserResolver, error) {
	return u.r.resolveUsers(ctx, u.user.Requests)
}

// Chats resolves the user's chats as previews holding only the most recent
// message.
func (u *UserResolver) Chats(ctx context.Context) ([]*ChatResolver, error) {
	chats := make([]*ChatResolver, 0, len(u.user.Chats))
	for _, chatID := range u.user.Chats {
		chat, err := u.r.chats.GetChatPreview(ctx, chatID)
		if err != nil {
			return nil, err
		}
		chats = append(chats, &ChatResolver{r: u.r, chat: chat})
	}
	return chats, nil
}

// ChatResolver resolves the Chat type.
type ChatResolver struct {
	r    *Resolver
	chat models.Chat
}

func (c *ChatResolver) ID() graphql.ID {
	return graphql.ID(c.chat.ID.Hex())
}

func (c *ChatResolver) Users(ctx context.Context) ([]*UserResolver, error) {
	return c.r.resolveUsers(ctx, c.chat.Users)
}

func (c *ChatResolver) Messages() []*MessageResolver {
	messages := make([]*MessageResolver, 0, len(c.chat.Messages))
	for _, msg := range c.chat.Messages {
		messages = append(messages, &MessageResolver{message: msg})
	}
	return messages
}

// MessageResolver resolves the Message type.
type MessageResolver struct {
	message models.Message
}

func (m *MessageResolver) ID() graphql.ID {
	return graphql.ID(m.message.ID.Hex())
}

func (m *MessageResolver) Text() string {
	return m.message.Text
}

func (m *MessageResolver) Owner() graphql.ID {
	return graphql.ID(m.message.Owner.Hex())
}

func (m *MessageResolver) Timestamp() string {
	return formatTime(m.message.Timestamp)
}

// SearchResultResolver resolves UserSearchResult.
type SearchResultResolver struct {
	r      *Resolver
	result models.UserSearchResult
}

func (s *SearchResultResolver) User() *UserResolver {
	return &UserResolver{r: s.r, user: s.result.User}
}

func (s *SearchResultResolver) IsFriend() bool {
	return s.result.IsFriend
}

func (s *SearchResultResolver) IsRequestSent() bool {
	return s.result.IsRequestSent
}

func (s *SearchResultResolver) HasIncomingRequest() bool {
	return s.result.HasIncomingRequest
}

// FriendRequestResultResolver resolves FriendRequestResult: the updated
// receiver on success, a conflict message otherwise.
type FriendRequestResultResolver struct {
	r            *Resolver
	user         *models.User
	errorMessage *string
}

func (f *FriendRequestResultResolver) User() *UserResolver {
	if f.user == nil {
		return nil
	}
	return &UserResolver{r: f.r, user: *f.user}
}

func (f *FriendRequestResultResolver) ErrorMessage() *string {
	return f.errorMessage
}

// MutationStatusResolver resolves MutationStatus.
type MutationStatusResolver struct {
	success bool
	message string
}

func (m *MutationStatusResolver) Success() bool {
	return m.success
}

func (m *MutationStatusResolver) Message() string {
	return m.message
}

func (r *Resolver) resolveUsers(ctx context.Context, ids []primitive.ObjectID) ([]*UserResolver, error) {
	users := make([]*UserResolver, 0, len(ids))
	for _, id := range ids {
		user, err := r.users.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, &UserResolver{r: r, user: user})
	}
	return users, nil
}
