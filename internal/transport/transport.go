// Package transport reaches the chat server. It owns the wire format and
// hands the sync core its collaborator types; the core never sees HTTP.
package transport

import (
	"context"

	"github.com/parleyhq/parley/internal/chat"
)

// Transport is the collaborator contract consumed by the sync core's owner.
// All fetches are pull-based; there is no push channel and no cancellation
// primitive beyond the context.
type Transport interface {
	// FetchConversations returns the raw conversation records the user
	// participates in.
	FetchConversations(ctx context.Context, userID string) ([]chat.RawConversation, error)

	// FetchMessages returns the full timeline for a conversation plus the
	// other participant's identity. Fetching also marks the conversation
	// seen server-side, so records come back with up-to-date seen state.
	FetchMessages(ctx context.Context, conversationID string) (*chat.MessagePage, error)

	// CreateConversation opens a thread between two users and returns the
	// server's conversation id.
	CreateConversation(ctx context.Context, userID, otherUserID string) (string, error)

	// SendMessage posts a message. At least one of text/image must be
	// present; a validation error is returned before any network call when
	// both are empty. The returned record is the confirmed message.
	SendMessage(ctx context.Context, conversationID, text string, image []byte) (*chat.RawMessage, error)

	// AnnounceTyping tells the other party whether the user is typing.
	// Fire and forget; failures are swallowed.
	AnnounceTyping(conversationID string, active bool)

	// FetchRoster returns all users known to the server.
	FetchRoster(ctx context.Context) ([]chat.RawUser, error)
}

// TypingFeed is implemented by transports that can report the other
// participant's typing activity. The reference server pushes typing over a
// socket it does not expose to polling clients, so the HTTP client does not
// implement this.
type TypingFeed interface {
	PollTyping(ctx context.Context, conversationID string) (bool, error)
}

// AuthResult is what a successful OTP verification returns.
type AuthResult struct {
	Token string
	User  chat.RawUser
}
