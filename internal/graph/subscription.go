package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"chatgraph/internal/models"
	"chatgraph/internal/observability"
	"chatgraph/internal/repositories"
)

// MessageAdded streams messages appended to the given chat. Membership is
// checked at subscribe time and every delivered event is filtered on the
// chat id, so a subscriber never sees another chat's traffic. The stream
// carries only messages published after subscribing; there is no replay.
func (r *Resolver) MessageAdded(ctx context.Context, args struct{ ChatId, UserId graphql.ID }) (<-chan *MessageResolver, error) {
	chatID, err := parseID(args.ChatId)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(args.UserId)
	if err != nil {
		return nil, err
	}

	chat, err := r.chats.GetChat(ctx, chatID)
	if errors.Is(err, repositories.ErrChatNotFound) {
		return nil, errChatNotFound
	}
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		observability.IncGraphQLOperation("message_added", "forbidden")
		return nil, errNotInChat
	}

	events := r.hub.Subscribe(ctx, func(event models.MessageEvent) bool {
		return event.ChatID == chatID
	})
	observability.IncGraphQLOperation("message_added", "subscribed")

	out := make(chan *MessageResolver)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case out <- &MessageResolver{message: event.Message}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
