package graph

import (
	"context"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatgraph/internal/mocks"
	"chatgraph/internal/models"
	"chatgraph/internal/repositories"
)

func int32ptr(v int32) *int32 { return &v }

func TestGetUserIdUnknownEmail(t *testing.T) {
	r, _, _, _ := newTestResolver()

	_, err := r.GetUserId(context.Background(), struct{ Email string }{Email: "nobody@x.com"})
	require.ErrorIs(t, err, errUserNotFound)
}

func TestGetChatRejectsNonMembers(t *testing.T) {
	r, _, _, _ := newTestResolver()
	ctx := context.Background()

	alice := upsert(t, r, "a@x.com", "alice")
	bob := upsert(t, r, "b@x.com", "bob")
	mallory := upsert(t, r, "m@x.com", "mallory")
	befriend(t, r, alice, bob)

	chat, err := r.CreateChat(ctx, struct{ UserIds []graphql.ID }{
		UserIds: []graphql.ID{alice.ID(), bob.ID()},
	})
	require.NoError(t, err)

	_, err = r.GetChat(ctx, struct {
		Input  GetChatInput
		Limit  *int32
		Offset *int32
	}{Input: GetChatInput{ChatId: chat.ID(), UserId: mallory.ID()}})
	require.ErrorIs(t, err, errNotInChat)
}

func TestGetChatUnknownChat(t *testing.T) {
	r, _, _, _ := newTestResolver()

	alice := upsert(t, r, "a@x.com", "alice")

	_, err := r.GetChat(context.Background(), struct {
		Input  GetChatInput
		Limit  *int32
		Offset *int32
	}{Input: GetChatInput{ChatId: "64f000000000000000000000", UserId: alice.ID()}})
	require.ErrorIs(t, err, errChatNotFound)
}

func TestGetChatPagination(t *testing.T) {
	r, _, _, _ := newTestResolver()
	ctx := context.Background()

	alice := upsert(t, r, "a@x.com", "alice")
	bob := upsert(t, r, "b@x.com", "bob")
	befriend(t, r, alice, bob)

	chat, err := r.CreateChat(ctx, struct{ UserIds []graphql.ID }{
		UserIds: []graphql.ID{alice.ID(), bob.ID()},
	})
	require.NoError(t, err)

	for _, text := range []string{"m1", "m2", "m3"} {
		_, err := r.SendMessage(ctx, struct{ Input SendMessageInput }{
			Input: SendMessageInput{ChatId: chat.ID(), OwnerId: alice.ID(), Text: text},
		})
		require.NoError(t, err)
	}

	page, err := r.GetChat(ctx, struct {
		Input  GetChatInput
		Limit  *int32
		Offset *int32
	}{
		Input:  GetChatInput{ChatId: chat.ID(), UserId: alice.ID()},
		Limit:  int32ptr(2),
		Offset: int32ptr(1),
	})
	require.NoError(t, err)

	messages := page.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, "m2", messages[0].Text())
	require.Equal(t, "m1", messages[1].Text())
}

func TestGetMessageAfterSend(t *testing.T) {
	r, _, _, _ := newTestResolver()
	ctx := context.Background()

	alice := upsert(t, r, "a@x.com", "alice")
	bob := upsert(t, r, "b@x.com", "bob")
	befriend(t, r, alice, bob)

	chat, err := r.CreateChat(ctx, struct{ UserIds []graphql.ID }{
		UserIds: []graphql.ID{alice.ID(), bob.ID()},
	})
	require.NoError(t, err)

	_, err = r.SendMessage(ctx, struct{ Input SendMessageInput }{
		Input: SendMessageInput{ChatId: chat.ID(), OwnerId: alice.ID(), Text: "hi"},
	})
	require.NoError(t, err)

	page, err := r.GetChat(ctx, struct {
		Input  GetChatInput
		Limit  *int32
		Offset *int32
	}{Input: GetChatInput{ChatId: chat.ID(), UserId: alice.ID()}})
	require.NoError(t, err)
	require.Len(t, page.Messages(), 1)

	msg, err := r.GetMessage(ctx, struct{ Id graphql.ID }{Id: page.Messages()[0].ID()})
	require.NoError(t, err)
	require.Equal(t, "hi", msg.Text())

	_, err = r.GetMessage(ctx, struct{ Id graphql.ID }{Id: "64f000000000000000000000"})
	require.ErrorIs(t, err, errMessageGone)
}

func TestGetUserBySearchRelationshipFlags(t *testing.T) {
	r, _, _, _ := newTestResolver()
	ctx := context.Background()

	alice := upsert(t, r, "a@x.com", "alice")
	bob := upsert(t, r, "bob@x.com", "bob")
	carol := upsert(t, r, "carol@x.com", "carol")
	dave := upsert(t, r, "dave@x.com", "dave")
	befriend(t, r, alice, bob)

	// carol has asked alice, alice has asked dave
	_, err := r.SendFriendRequest(ctx, struct{ SenderId, ReceiverId graphql.ID }{
		SenderId: carol.ID(), ReceiverId: alice.ID(),
	})
	require.NoError(t, err)
	_, err = r.SendFriendRequest(ctx, struct{ SenderId, ReceiverId graphql.ID }{
		SenderId: alice.ID(), ReceiverId: dave.ID(),
	})
	require.NoError(t, err)

	results, err := r.GetUserBySearch(ctx, struct {
		SearchString  string
		Limit         int32
		CurrentUserId graphql.ID
	}{SearchString: "@x.com", Limit: 10, CurrentUserId: alice.ID()})
	require.NoError(t, err)

	flags := map[string][3]bool{}
	for _, result := range results {
		user := result.User()
		require.NotEqual(t, alice.ID(), user.ID(), "search must exclude the searching user")
		flags[user.Email()] = [3]bool{result.IsFriend(), result.IsRequestSent(), result.HasIncomingRequest()}
	}

	require.Equal(t, [3]bool{true, false, false}, flags["bob@x.com"])
	require.Equal(t, [3]bool{false, false, true}, flags["carol@x.com"])
	require.Equal(t, [3]bool{false, true, false}, flags["dave@x.com"])
}

func TestGetFriendsAndRequests(t *testing.T) {
	r, _, _, _ := newTestResolver()
	ctx := context.Background()

	alice := upsert(t, r, "a@x.com", "alice")
	bob := upsert(t, r, "b@x.com", "bob")
	carol := upsert(t, r, "c@x.com", "carol")
	befriend(t, r, alice, bob)

	_, err := r.SendFriendRequest(ctx, struct{ SenderId, ReceiverId graphql.ID }{
		SenderId: carol.ID(), ReceiverId: alice.ID(),
	})
	require.NoError(t, err)

	friends, err := r.GetFriends(ctx, struct{ UserId graphql.ID }{UserId: alice.ID()})
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, bob.ID(), friends[0].ID())

	requests, err := r.GetRequests(ctx, struct{ UserId graphql.ID }{UserId: alice.ID()})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, carol.ID(), requests[0].ID())
}

func TestGetChatsReturnsPreviews(t *testing.T) {
	r, _, _, _ := newTestResolver()
	ctx := context.Background()

	alice := upsert(t, r, "a@x.com", "alice")
	bob := upsert(t, r, "b@x.com", "bob")
	befriend(t, r, alice, bob)

	chat, err := r.CreateChat(ctx, struct{ UserIds []graphql.ID }{
		UserIds: []graphql.ID{alice.ID(), bob.ID()},
	})
	require.NoError(t, err)

	for _, text := range []string{"old", "new"} {
		_, err := r.SendMessage(ctx, struct{ Input SendMessageInput }{
			Input: SendMessageInput{ChatId: chat.ID(), OwnerId: alice.ID(), Text: text},
		})
		require.NoError(t, err)
	}

	chats, err := r.GetChats(ctx, struct{ UserId graphql.ID }{UserId: alice.ID()})
	require.NoError(t, err)
	require.Len(t, chats, 1)

	preview := chats[0].Messages()
	require.Len(t, preview, 1)
	require.Equal(t, "new", preview[0].Text())
}

func TestGetFriendsDanglingReferencePropagates(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	chats := new(mocks.ChatRepositoryMock)
	r := newMockResolver(users, chats)

	userID := primitive.NewObjectID()
	ghostID := primitive.NewObjectID()

	users.On("GetUser", mock.Anything, userID).Return(models.User{
		ID: userID, Friends: []primitive.ObjectID{ghostID},
	}, nil)
	users.On("GetUser", mock.Anything, ghostID).Return(nil, repositories.ErrUserNotFound)

	_, err := r.GetFriends(context.Background(), struct{ UserId graphql.ID }{
		UserId: graphql.ID(userID.Hex()),
	})
	require.ErrorIs(t, err, repositories.ErrUserNotFound)
}
