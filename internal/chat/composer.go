package chat

import "time"

// DefaultTypingExpiry is how long after the last keystroke the typing signal
// is considered stopped.
const DefaultTypingExpiry = 3 * time.Second

// TypingSignal is an instruction to announce typing state to the transport.
// Nil signals mean nothing to announce.
type TypingSignal struct {
	ConversationID string
	Active         bool
}

// Composer owns the draft text for the active conversation and the debounced
// typing signal. A single "typing" announcement is live at a time: it is
// emitted on the first edit, renewed (expiry pushed out) on each subsequent
// keystroke, and followed by a "stopped" announcement when the expiry passes
// with no keystroke.
//
// Expiry is deadline-based rather than timer-based: the owner polls Expire
// with the current time (a tick in the UI, an injected clock in tests), so
// cancellation semantics stay explicit and tests need no wall-clock delays.
type Composer struct {
	draft  DraftState
	expiry time.Duration

	now func() time.Time
}

// NewComposer returns a composer with the default typing expiry.
func NewComposer() *Composer {
	return &Composer{
		expiry: DefaultTypingExpiry,
		now:    time.Now,
	}
}

// SetClock overrides the time source. For tests.
func (c *Composer) SetClock(now func() time.Time) {
	c.now = now
}

// SetTypingExpiry overrides the typing-expiry window.
func (c *Composer) SetTypingExpiry(d time.Duration) {
	c.expiry = d
}

// SetDraft stores the draft text for a conversation. Switching to a
// different conversation discards the prior draft and typing state outright;
// use CancelAll first if the stop announcement for the old conversation
// matters.
func (c *Composer) SetDraft(conversationID, text string) {
	if c.draft.ConversationID != conversationID {
		c.draft = DraftState{ConversationID: conversationID}
	}
	c.draft.Text = text
}

// OnLocalEdit registers a keystroke in the active conversation. Returns a
// "typing" signal on the first edit of a live window, nil while the window
// is merely being renewed.
func (c *Composer) OnLocalEdit() *TypingSignal {
	if c.draft.ConversationID == "" {
		return nil
	}

	c.draft.TypingExpiresAt = c.now().Add(c.expiry)
	if c.draft.TypingActive {
		return nil
	}
	c.draft.TypingActive = true
	return &TypingSignal{ConversationID: c.draft.ConversationID, Active: true}
}

// Expire checks the typing deadline against the given time. Returns a
// "stopped" signal when the live window has lapsed, nil otherwise.
func (c *Composer) Expire(now time.Time) *TypingSignal {
	if !c.draft.TypingActive || now.Before(c.draft.TypingExpiresAt) {
		return nil
	}
	c.draft.TypingActive = false
	c.draft.TypingExpiresAt = time.Time{}
	return &TypingSignal{ConversationID: c.draft.ConversationID, Active: false}
}

// ClearOnSend clears the draft and cancels the typing window after a send is
// accepted locally, regardless of the server outcome. Returns the "stopped"
// signal when a window was live.
func (c *Composer) ClearOnSend() *TypingSignal {
	c.draft.Text = ""
	if !c.draft.TypingActive {
		return nil
	}
	c.draft.TypingActive = false
	c.draft.TypingExpiresAt = time.Time{}
	return &TypingSignal{ConversationID: c.draft.ConversationID, Active: false}
}

// CancelAll discards the draft and typing state on a conversation switch.
// The returned "stopped" signal, if any, is addressed to the old
// conversation; nothing is ever announced for the new one.
func (c *Composer) CancelAll() *TypingSignal {
	var signal *TypingSignal
	if c.draft.TypingActive {
		signal = &TypingSignal{ConversationID: c.draft.ConversationID, Active: false}
	}
	c.draft = DraftState{}
	return signal
}

// Draft returns the current draft state.
func (c *Composer) Draft() DraftState {
	return c.draft
}
