// Package errors provides structured error types for the Parley application.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindTransport
	KindIntegrity
	KindAuth
	KindConfig
	KindIO
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindTransport:
		return "transport error"
	case KindIntegrity:
		return "data integrity warning"
	case KindAuth:
		return "authentication error"
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for Parley.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Transport errors

func FetchConversationsFailed(userID string, err error) error {
	return E(Op("transport.FetchConversations"), KindTransport, fmt.Sprintf("failed to fetch conversations for %s", userID), err)
}

func FetchMessagesFailed(conversationID string, err error) error {
	return E(Op("transport.FetchMessages"), KindTransport, fmt.Sprintf("failed to fetch messages for conversation %s", conversationID), err)
}

func SendMessageFailed(conversationID string, err error) error {
	return E(Op("transport.SendMessage"), KindTransport, fmt.Sprintf("failed to send message in conversation %s", conversationID), err)
}

func CreateConversationFailed(otherUserID string, err error) error {
	return E(Op("transport.CreateConversation"), KindTransport, fmt.Sprintf("failed to create conversation with %s", otherUserID), err)
}

// Validation errors

func EmptyMessage() error {
	return E(Op("chat.SendMessage"), KindValidation, "message requires text or an image")
}

// Integrity warnings

func MalformedConversation(conversationID string) error {
	return E(Op("chat.Refresh"), KindIntegrity, fmt.Sprintf("conversation %s has no resolvable other participant", conversationID))
}

// Auth errors

func NotLoggedIn() error {
	return E(Op("auth.Token"), KindAuth, "no auth token configured; run 'parley login'")
}

func OTPVerifyFailed(email string, err error) error {
	return E(Op("auth.Verify"), KindAuth, fmt.Sprintf("failed to verify code for %s", email), err)
}

// Config errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindConfig, reason)
}

// Navigator errors

func ConversationNotFound(id string) error {
	return E(Op("chat.Select"), KindNotFound, fmt.Sprintf("conversation %s not found", id))
}
