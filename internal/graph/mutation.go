package graph

import (
	"context"
	"errors"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatgraph/internal/models"
	"chatgraph/internal/observability"
	"chatgraph/internal/repositories"
)

// UserInput carries the create-only fields of upsertUser. Optional fields
// are applied only when present.
type UserInput struct {
	Email string
	Name  *string
	Image *string
}

// SendMessageInput identifies the target chat, the sending participant and
// the message text.
type SendMessageInput struct {
	ChatId  graphql.ID
	OwnerId graphql.ID
	Text    string
}

// UpsertUser creates a user by email or returns the existing one. Calling it
// twice with the same email yields the same user.
func (r *Resolver) UpsertUser(ctx context.Context, args struct{ Input UserInput }) (*UserResolver, error) {
	user, err := r.users.UpsertUser(ctx, models.UpsertUserFields{
		Email: args.Input.Email,
		Name:  args.Input.Name,
		Image: args.Input.Image,
	})
	if err != nil {
		r.emitAudit(ctx, "upsert_user", "error", err.Error(), "")
		return nil, err
	}

	r.emitAudit(ctx, "upsert_user", "ok", "", user.ID.Hex())
	return &UserResolver{r: r, user: user}, nil
}

// SendFriendRequest moves the (sender, receiver) pair from None to Pending.
// Conflicts come back as a structured errorMessage, not a resolution error.
func (r *Resolver) SendFriendRequest(ctx context.Context, args struct{ SenderId, ReceiverId graphql.ID }) (*FriendRequestResultResolver, error) {
	senderID, err := parseID(args.SenderId)
	if err != nil {
		return r.friendRequestFailure(ctx, "invalid", "One or both users not found"), nil
	}
	receiverID, err := parseID(args.ReceiverId)
	if err != nil {
		return r.friendRequestFailure(ctx, "invalid", "One or both users not found"), nil
	}
	if senderID == receiverID {
		return r.friendRequestFailure(ctx, "invalid", "Cannot send a friend request to yourself"), nil
	}

	if _, err := r.users.GetUser(ctx, senderID); err != nil {
		return r.friendRequestFailure(ctx, "not_found", "One or both users not found"), nil
	}
	receiver, err := r.users.GetUser(ctx, receiverID)
	if err != nil {
		return r.friendRequestFailure(ctx, "not_found", "One or both users not found"), nil
	}

	if receiver.HasFriend(senderID) {
		return r.friendRequestFailure(ctx, "conflict", "Users are already friends"), nil
	}
	if receiver.HasRequest(senderID) {
		return r.friendRequestFailure(ctx, "conflict", "Friend request already sent"), nil
	}

	if err := r.users.AddRequest(ctx, receiverID, senderID); err != nil {
		return r.friendRequestFailure(ctx, "error", "Error sending friend request: "+err.Error()), nil
	}

	receiver.Requests = append(receiver.Requests, senderID)
	r.emitAudit(ctx, "send_friend_request", "ok", "", senderID.Hex())
	return &FriendRequestResultResolver{r: r, user: &receiver}, nil
}

// AcceptFriendRequest moves (requester, user) from Pending to Friends: both
// friends sets gain the other id and the pending request is cleared. The two
// document updates are independent; a failure between them can leave a
// one-sided friendship until the accept is retried.
func (r *Resolver) AcceptFriendRequest(ctx context.Context, args struct{ RequestId, UserId graphql.ID }) (*MutationStatusResolver, error) {
	requesterID, userID, status := r.checkRequestPair(ctx, args.RequestId, args.UserId, "accept_friend_request")
	if status != nil {
		return status, nil
	}

	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		return r.mutationFailure(ctx, "accept_friend_request", "not_found", "One or both users not found"), nil
	}
	if !user.HasRequest(requesterID) {
		return r.mutationFailure(ctx, "accept_friend_request", "not_found", "Friend request not found"), nil
	}
	if user.HasFriend(requesterID) {
		return r.mutationFailure(ctx, "accept_friend_request", "conflict", "Users are already friends"), nil
	}

	if err := r.users.AcceptRequest(ctx, userID, requesterID); err != nil {
		return r.mutationFailure(ctx, "accept_friend_request", "error", "Error accepting friend request: "+err.Error()), nil
	}
	if err := r.users.AddFriend(ctx, requesterID, userID); err != nil {
		return r.mutationFailure(ctx, "accept_friend_request", "error", "Error accepting friend request: "+err.Error()), nil
	}

	r.emitAudit(ctx, "accept_friend_request", "ok", "", userID.Hex())
	return &MutationStatusResolver{success: true, message: "Friend request accepted"}, nil
}

// DeleteFriendRequest declines a pending request: only the receiver's
// requests set changes, the pair returns to None.
func (r *Resolver) DeleteFriendRequest(ctx context.Context, args struct{ RequestId, UserId graphql.ID }) (*MutationStatusResolver, error) {
	requesterID, userID, status := r.checkRequestPair(ctx, args.RequestId, args.UserId, "delete_friend_request")
	if status != nil {
		return status, nil
	}

	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		return r.mutationFailure(ctx, "delete_friend_request", "not_found", "One or both users not found"), nil
	}
	if !user.HasRequest(requesterID) {
		return r.mutationFailure(ctx, "delete_friend_request", "not_found", "Friend request not found"), nil
	}

	if err := r.users.RemoveRequest(ctx, userID, requesterID); err != nil {
		return r.mutationFailure(ctx, "delete_friend_request", "error", "Error deleting friend request: "+err.Error()), nil
	}

	r.emitAudit(ctx, "delete_friend_request", "ok", "", userID.Hex())
	return &MutationStatusResolver{success: true, message: "Friend request deleted"}, nil
}

// CreateChat creates the unique chat for a pair of mutual friends, or
// returns the existing one unchanged.
func (r *Resolver) CreateChat(ctx context.Context, args struct{ UserIds []graphql.ID }) (*ChatResolver, error) {
	if len(args.UserIds) != 2 {
		return nil, errNotTwoUsers
	}

	userIDs := make([]primitive.ObjectID, 0, 2)
	for _, id := range args.UserIds {
		objectID, err := parseID(id)
		if err != nil {
			return nil, errUsersNotFound
		}
		userIDs = append(userIDs, objectID)
	}
	if userIDs[0] == userIDs[1] {
		return nil, errNotTwoUsers
	}

	users := make([]models.User, 0, 2)
	for _, id := range userIDs {
		user, err := r.users.GetUser(ctx, id)
		if err != nil {
			return nil, errUsersNotFound
		}
		users = append(users, user)
	}

	if !users[0].HasFriend(users[1].ID) || !users[1].HasFriend(users[0].ID) {
		return nil, errNotFriends
	}

	existing, err := r.chats.FindByParticipants(ctx, userIDs)
	if err == nil {
		r.emitAudit(ctx, "create_chat", "ok", "existing chat returned", users[0].ID.Hex())
		return &ChatResolver{r: r, chat: existing}, nil
	}
	if !errors.Is(err, repositories.ErrChatNotFound) {
		return nil, err
	}

	chat, err := r.chats.CreateChat(ctx, userIDs)
	if err != nil {
		r.emitAudit(ctx, "create_chat", "error", err.Error(), users[0].ID.Hex())
		return nil, err
	}

	// Membership is written per user with no rollback; a failure partway
	// leaves one chats list behind the chat's own member set.
	for _, user := range users {
		if err := r.users.AddChat(ctx, user.ID, chat.ID); err != nil {
			r.emitAudit(ctx, "create_chat", "error", err.Error(), user.ID.Hex())
			return nil, err
		}
	}

	r.emitAudit(ctx, "create_chat", "ok", "", users[0].ID.Hex())
	return &ChatResolver{r: r, chat: chat}, nil
}

// SendMessage appends a message to the front of the chat's sequence and
// notifies subscribers. The caller gets a status string, not the message.
func (r *Resolver) SendMessage(ctx context.Context, args struct{ Input SendMessageInput }) (string, error) {
	if strings.TrimSpace(args.Input.Text) == "" {
		return "Message text is required", nil
	}

	chatID, err := parseID(args.Input.ChatId)
	if err != nil {
		return "Chat not found", nil
	}
	ownerID, err := parseID(args.Input.OwnerId)
	if err != nil {
		return "User not part of the chat", nil
	}

	chat, err := r.chats.GetChat(ctx, chatID)
	if errors.Is(err, repositories.ErrChatNotFound) {
		return "Chat not found", nil
	}
	if err != nil {
		return "Error sending message: " + err.Error(), nil
	}
	if !chat.HasParticipant(ownerID) {
		r.emitAudit(ctx, "send_message", "forbidden", "", ownerID.Hex())
		return "User not part of the chat", nil
	}

	message := models.Message{
		ID:        primitive.NewObjectID(),
		Text:      args.Input.Text,
		Owner:     ownerID,
		Timestamp: time.Now().UTC(),
	}
	if err := r.chats.PrependMessage(ctx, chatID, message); err != nil {
		r.emitAudit(ctx, "send_message", "error", err.Error(), ownerID.Hex())
		return "Error sending message: " + err.Error(), nil
	}

	event := models.MessageEvent{ChatID: chatID, Message: message}
	r.hub.Publish(event)
	_ = observability.PublishEvent(ctx, "chat_events.messages",
		observability.NewEnvelope("chat_events", "message_sent", event),
		observability.BuildHeaders(observability.RequestIDFromContext(ctx), ""))

	r.emitAudit(ctx, "send_message", "ok", "", ownerID.Hex())
	return "Message sent successfully", nil
}

func (r *Resolver) checkRequestPair(ctx context.Context, requestID, userID graphql.ID, action string) (primitive.ObjectID, primitive.ObjectID, *MutationStatusResolver) {
	requesterID, err := parseID(requestID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, r.mutationFailure(ctx, action, "not_found", "One or both users not found")
	}
	target, err := parseID(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, r.mutationFailure(ctx, action, "not_found", "One or both users not found")
	}
	if _, err := r.users.GetUser(ctx, requesterID); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, r.mutationFailure(ctx, action, "not_found", "One or both users not found")
	}
	return requesterID, target, nil
}

func (r *Resolver) friendRequestFailure(ctx context.Context, outcome, message string) *FriendRequestResultResolver {
	r.emitAudit(ctx, "send_friend_request", outcome, message, "")
	return &FriendRequestResultResolver{r: r, errorMessage: &message}
}

func (r *Resolver) mutationFailure(ctx context.Context, action, outcome, message string) *MutationStatusResolver {
	r.emitAudit(ctx, action, outcome, message, "")
	return &MutationStatusResolver{success: false, message: message}
}
