package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"chatgraph/internal/models"
	"chatgraph/internal/repositories"
)

const (
	defaultMessageLimit = 20
	defaultSearchLimit  = 10
)

// GetChatInput identifies a chat together with the requesting user.
type GetChatInput struct {
	ChatId graphql.ID
	UserId graphql.ID
}

// GetUserId resolves a user id by its unique email.
func (r *Resolver) GetUserId(ctx context.Context, args struct{ Email string }) (graphql.ID, error) {
	user, err := r.users.GetUserByEmail(ctx, args.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return "", errUserNotFound
	}
	if err != nil {
		return "", err
	}
	return graphql.ID(user.ID.Hex()), nil
}

// GetUserBySearch matches users by name or email, decorated with relationship
// flags relative to the searching user.
func (r *Resolver) GetUserBySearch(ctx context.Context, args struct {
	SearchString  string
	Limit         int32
	CurrentUserId graphql.ID
}) ([]*SearchResultResolver, error) {
	currentID, err := parseID(args.CurrentUserId)
	if err != nil {
		return nil, err
	}

	current, err := r.users.GetUser(ctx, currentID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}

	limit := int64(args.Limit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matches, err := r.users.SearchUsers(ctx, args.SearchString, currentID, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*SearchResultResolver, 0, len(matches))
	for _, match := range matches {
		results = append(results, &SearchResultResolver{
			r: r,
			result: models.UserSearchResult{
				User:               match,
				IsFriend:           match.HasFriend(currentID),
				IsRequestSent:      match.HasRequest(currentID),
				HasIncomingRequest: current.HasRequest(match.ID),
			},
		})
	}
	return results, nil
}

// GetChat returns a chat with its message sequence sliced from offset for up
// to limit entries, newest-first. Only participants may read it.
func (r *Resolver) GetChat(ctx context.Context, args struct {
	Input  GetChatInput
	Limit  *int32
	Offset *int32
}) (*ChatResolver, error) {
	chatID, err := parseID(args.Input.ChatId)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(args.Input.UserId)
	if err != nil {
		return nil, err
	}

	limit := int64(defaultMessageLimit)
	if args.Limit != nil && *args.Limit > 0 {
		limit = int64(*args.Limit)
	}
	var offset int64
	if args.Offset != nil && *args.Offset > 0 {
		offset = int64(*args.Offset)
	}

	chat, err := r.chats.GetChatPage(ctx, chatID, offset, limit)
	if errors.Is(err, repositories.ErrChatNotFound) {
		return nil, errChatNotFound
	}
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errNotInChat
	}

	return &ChatResolver{r: r, chat: chat}, nil
}

// GetMessage looks an embedded message up by id.
func (r *Resolver) GetMessage(ctx context.Context, args struct{ Id graphql.ID }) (*MessageResolver, error) {
	messageID, err := parseID(args.Id)
	if err != nil {
		return nil, err
	}

	message, err := r.chats.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return nil, errMessageGone
	}
	if err != nil {
		return nil, err
	}
	return &MessageResolver{message: message}, nil
}

// GetChats returns the user's chats as previews, each with only its most
// recent message.
func (r *Resolver) GetChats(ctx context.Context, args struct{ UserId graphql.ID }) ([]*ChatResolver, error) {
	userID, err := parseID(args.UserId)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetUser(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}

	resolver := &UserResolver{r: r, user: user}
	return resolver.Chats(ctx)
}

// GetRequests resolves the full records of the user's pending incoming
// requests.
func (r *Resolver) GetRequests(ctx context.Context, args struct{ UserId graphql.ID }) ([]*UserResolver, error) {
	user, err := r.lookupUser(ctx, args.UserId)
	if err != nil {
		return nil, err
	}
	return r.resolveUsers(ctx, user.Requests)
}

// GetFriends resolves the full records of the user's friends.
func (r *Resolver) GetFriends(ctx context.Context, args struct{ UserId graphql.ID }) ([]*UserResolver, error) {
	user, err := r.lookupUser(ctx, args.UserId)
	if err != nil {
		return nil, err
	}
	return r.resolveUsers(ctx, user.Friends)
}

func (r *Resolver) lookupUser(ctx context.Context, id graphql.ID) (models.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return models.User{}, err
	}
	user, err := r.users.GetUser(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, errUserNotFound
	}
	return user, err
}
