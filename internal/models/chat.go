package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is a document in the chats collection: a private conversation between
// exactly two users. Messages are embedded newest-first.
type Chat struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Users    []primitive.ObjectID `bson:"users" json:"users"`
	Messages []Message            `bson:"messages" json:"messages"`
}

// HasParticipant reports whether userID is a member of the chat.
func (c Chat) HasParticipant(userID primitive.ObjectID) bool {
	return containsID(c.Users, userID)
}

// Message is embedded in its chat; its lifecycle is bound to the chat's.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// MessageEvent is published on the notification bus when a message is
// appended to a chat.
type MessageEvent struct {
	ChatID  primitive.ObjectID `json:"chat_id"`
	Message Message            `json:"message"`
}
