// Package chat implements the client-side synchronization core: the
// conversation directory, the message timeline for the active conversation,
// draft/typing state, and the session state machine that sequences fetches
// against user-driven selection changes.
//
// The package performs no I/O. Fetch and send results are handed in by the
// caller (the app model), and all mutation is expected to happen on a single
// goroutine. Staleness is handled with a monotonically increasing fetch token
// rather than cancellation.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind distinguishes text messages from image messages.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
)

// Participant is a user known to the roster. Immutable once fetched;
// conversations reference participants by id only.
type Participant struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// Image is an uploaded image attachment.
type Image struct {
	URL       string
	StorageID string
}

// MessagePreview is the latest-message summary the server attaches to a
// conversation record.
type MessagePreview struct {
	Text      string
	SenderID  string
	Timestamp time.Time
}

// Conversation is a two-party chat thread as seen by the current user.
type Conversation struct {
	ID             string
	ParticipantIDs []string
	OtherUserID    string
	Other          Participant
	LatestMessage  *MessagePreview
	UnseenCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPlaceholder reports whether this conversation was inserted optimistically
// after a local create and has not yet been confirmed by a directory refresh.
func (c Conversation) IsPlaceholder() bool {
	return isTempID(c.ID)
}

// Message is a single entry in a conversation timeline. Exactly one of
// Text/Image is populated per Kind. Pending marks an optimistic message that
// has not been confirmed by the server; Failed marks a pending message whose
// send failed (kept visible so the user can retry).
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Kind           MessageKind
	Text           string
	Image          *Image
	CreatedAt      time.Time
	Seen           bool
	SeenAt         time.Time
	Pending        bool
	Failed         bool
}

// DraftState holds the composition state for the active conversation.
// Not persisted; destroyed when the active conversation changes.
type DraftState struct {
	ConversationID  string
	Text            string
	TypingActive    bool
	TypingExpiresAt time.Time
}

// Phase is the session state machine's position.
type Phase int

const (
	// PhaseIdle means no conversation is selected.
	PhaseIdle Phase = iota
	// PhaseLoading means a timeline fetch is in flight.
	PhaseLoading
	// PhaseReady means the timeline is loaded and may receive reconciliations.
	PhaseReady
	// PhaseErrored means the last fetch failed; any prior timeline stays visible.
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseErrored:
		return "error"
	default:
		return "unknown"
	}
}

// SessionState describes which conversation is active and how far along its
// load is. LastFetchToken is the race-discarding mechanism: every fetch is
// tagged with the token current at issue time, and completions carrying an
// older token are dropped.
type SessionState struct {
	ActiveConversationID string
	ActiveUserID         string
	Phase                Phase
	LastFetchToken       uint64
	Err                  error
}

// Raw types are the collaborator contract: what a transport hands the core.
// The transport package owns decoding the server's wire format into these.

// RawUser is a roster entry as reported by the server.
type RawUser struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Email       string
}

// RawConversation is a conversation record as reported by the server,
// keyed by an arbitrary participant-id list.
type RawConversation struct {
	ID             string
	ParticipantIDs []string
	LatestMessage  *MessagePreview
	UnseenCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RawMessage is a confirmed message record as reported by the server.
type RawMessage struct {
	ID             string
	ConversationID string
	SenderID       string
	Kind           MessageKind
	Text           string
	Image          *Image
	CreatedAt      time.Time
	Seen           bool
	SeenAt         time.Time
}

// Message converts a confirmed server record into a timeline message.
func (r RawMessage) Message() Message {
	return Message{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		SenderID:       r.SenderID,
		Kind:           r.Kind,
		Text:           r.Text,
		Image:          r.Image,
		CreatedAt:      r.CreatedAt,
		Seen:           r.Seen,
		SeenAt:         r.SeenAt,
	}
}

// MessagePage is the result of a message fetch: the timeline plus the other
// participant's identity.
type MessagePage struct {
	Messages         []RawMessage
	OtherParticipant RawUser
}

const tempIDPrefix = "tmp-"

// NewTempID generates a temporary id for optimistic messages and
// placeholder conversations.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

func isTempID(id string) bool {
	return len(id) > len(tempIDPrefix) && id[:len(tempIDPrefix)] == tempIDPrefix
}
