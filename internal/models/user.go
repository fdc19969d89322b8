package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the users collection. Friends is symmetric after an
// accepted request; Requests holds the ids of users with an incoming pending
// friend request.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name,omitempty" json:"name,omitempty"`
	Email     string               `bson:"email" json:"email"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Timestamp time.Time            `bson:"timestamp" json:"timestamp"`
	Friends   []primitive.ObjectID `bson:"friends" json:"friends"`
	Chats     []primitive.ObjectID `bson:"chats" json:"chats"`
	Requests  []primitive.ObjectID `bson:"requests" json:"requests"`
}

// HasFriend reports whether id is in the user's friends set.
func (u User) HasFriend(id primitive.ObjectID) bool {
	return containsID(u.Friends, id)
}

// HasRequest reports whether id is in the user's incoming requests set.
func (u User) HasRequest(id primitive.ObjectID) bool {
	return containsID(u.Requests, id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// UpsertUserFields carries the create-only fields of an upsert by email.
// Optional fields are applied only when set.
type UpsertUserFields struct {
	Email string
	Name  *string
	Image *string
}

// UserSearchResult decorates a user with relationship flags relative to the
// searching user.
type UserSearchResult struct {
	User               User `json:"user"`
	IsFriend           bool `json:"is_friend"`
	IsRequestSent      bool `json:"is_request_sent"`
	HasIncomingRequest bool `json:"has_incoming_request"`
}
