package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatgraph/internal/bus"
	"chatgraph/internal/observability"
	"chatgraph/internal/repositories"
	"chatgraph/internal/telemetry"
)

var (
	errUserNotFound  = errors.New("user not found")
	errChatNotFound  = errors.New("chat not found")
	errNotInChat     = errors.New("user not part of the chat")
	errMessageGone   = errors.New("message not found")
	errNotTwoUsers   = errors.New("chat requires exactly two distinct users")
	errUsersNotFound = errors.New("one or more users not found")
	errNotFriends    = errors.New("users are not friends")
)

// Resolver is the root GraphQL resolver. The friend-request lifecycle and
// the chat state machine live in its mutation methods; repositories provide
// the single-document persistence primitives.
type Resolver struct {
	users repositories.UserRepository
	chats repositories.ChatRepository
	hub   *bus.Hub
	audit *telemetry.AuditEmitter
}

// NewResolver builds a Resolver. audit may be nil.
func NewResolver(users repositories.UserRepository, chats repositories.ChatRepository, hub *bus.Hub, audit *telemetry.AuditEmitter) *Resolver {
	return &Resolver{users: users, chats: chats, hub: hub, audit: audit}
}

func (r *Resolver) emitAudit(ctx context.Context, action, outcome, detail, userID string) {
	r.audit.Emit(ctx, action, outcome, detail, observability.RequestIDFromContext(ctx), userID)
	if outcome == "ok" {
		observability.IncGraphQLOperation(action, "success")
	} else {
		observability.IncGraphQLOperation(action, outcome)
	}
}

func parseID(id graphql.ID) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q", string(id))
	}
	return objectID, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
