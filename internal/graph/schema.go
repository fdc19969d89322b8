package graph

// Schema is the GraphQL schema served at /graphql.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
		subscription: Subscription
	}

	type Query {
		getUserId(email: String!): ID!
		getUserBySearch(searchString: String!, limit: Int!, currentUserId: ID!): [UserSearchResult!]!
		getChat(input: GetChatInput!, limit: Int, offset: Int): Chat!
		getMessage(id: ID!): Message!
		getChats(userId: ID!): [Chat!]!
		getRequests(userId: ID!): [User!]!
		getFriends(userId: ID!): [User!]!
	}

	type Mutation {
		upsertUser(input: UserInput!): User!
		sendFriendRequest(senderId: ID!, receiverId: ID!): FriendRequestResult!
		acceptFriendRequest(requestId: ID!, userId: ID!): MutationStatus!
		deleteFriendRequest(requestId: ID!, userId: ID!): MutationStatus!
		createChat(userIds: [ID!]!): Chat!
		sendMessage(input: SendMessageInput!): String!
	}

	type Subscription {
		messageAdded(chatId: ID!, userId: ID!): Message!
	}

	type User {
		id: ID!
		name: String
		email: String!
		image: String
		timestamp: String!
		friends: [User!]!
		chats: [Chat!]!
		requests: [User!]!
	}

	type UserSearchResult {
		user: User!
		isFriend: Boolean!
		isRequestSent: Boolean!
		hasIncomingRequest: Boolean!
	}

	type FriendRequestResult {
		user: User
		errorMessage: String
	}

	type MutationStatus {
		success: Boolean!
		message: String!
	}

	type Chat {
		id: ID!
		users: [User!]!
		messages: [Message!]!
	}

	type Message {
		id: ID!
		text: String!
		owner: ID!
		timestamp: String!
	}

	input UserInput {
		email: String!
		name: String
		image: String
	}

	input SendMessageInput {
		chatId: ID!
		ownerId: ID!
		text: String!
	}

	input GetChatInput {
		chatId: ID!
		userId: ID!
	}
`
