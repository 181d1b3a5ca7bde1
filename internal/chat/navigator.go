package chat

import "github.com/parleyhq/parley/internal/logger"

// Navigator is the session state machine. It coordinates which conversation
// is active, sequences timeline fetches against user-driven selection
// changes, and discards fetch results whose token no longer matches the
// latest selection.
//
// The machine is long-lived: it re-enters PhaseLoading on every selection
// change, and has no terminal state.
type Navigator struct {
	state    SessionState
	timeline *Timeline
	composer *Composer
}

// NewNavigator wires the state machine to the timeline and composer it owns.
func NewNavigator(timeline *Timeline, composer *Composer) *Navigator {
	return &Navigator{
		timeline: timeline,
		composer: composer,
	}
}

// Select makes a conversation active. When the target is already active and
// its timeline is loaded, this is a no-op. Otherwise the fetch token is
// bumped, the previous timeline and composition state are cleared, and the
// caller must issue a timeline fetch tagged with the returned token.
//
// The returned stop signal, if any, announces "stopped typing" for the
// previously active conversation.
func (n *Navigator) Select(conversationID, otherUserID string) (token uint64, stop *TypingSignal, start bool) {
	if n.state.Phase == PhaseReady &&
		n.state.ActiveConversationID == conversationID &&
		n.state.ActiveUserID == otherUserID {
		return n.state.LastFetchToken, nil, false
	}

	n.state.LastFetchToken++
	n.state.ActiveConversationID = conversationID
	n.state.ActiveUserID = otherUserID
	n.state.Phase = PhaseLoading
	n.state.Err = nil

	stop = n.composer.CancelAll()
	n.composer.SetDraft(conversationID, "")
	n.timeline.Reset(conversationID)

	logger.Debug("selected conversation %s (token %d)", conversationID, n.state.LastFetchToken)
	return n.state.LastFetchToken, stop, true
}

// Deselect returns the machine to PhaseIdle, clearing the timeline and
// composition state. A pending typing window is cancelled, with the stop
// signal addressed to the old conversation.
func (n *Navigator) Deselect() *TypingSignal {
	n.state.LastFetchToken++
	n.state = SessionState{LastFetchToken: n.state.LastFetchToken}
	stop := n.composer.CancelAll()
	n.timeline.Reset("")
	return stop
}

// Apply installs a completed timeline fetch. Results carrying a token other
// than the latest are stale and silently discarded; the method reports
// whether the result was applied.
func (n *Navigator) Apply(token uint64, msgs []Message) bool {
	if token != n.state.LastFetchToken {
		logger.Debug("discarding stale timeline fetch (token %d, current %d)", token, n.state.LastFetchToken)
		return false
	}
	n.timeline.Replace(msgs)
	n.state.Phase = PhaseReady
	n.state.Err = nil
	return true
}

// Fail records a failed timeline fetch. Stale failures are discarded like
// stale results. A current failure moves the machine to PhaseErrored while
// leaving whatever timeline is loaded visible.
func (n *Navigator) Fail(token uint64, err error) bool {
	if token != n.state.LastFetchToken {
		return false
	}
	n.state.Phase = PhaseErrored
	n.state.Err = err
	return true
}

// Session returns the current session state.
func (n *Navigator) Session() SessionState {
	return n.state
}

// Token returns the latest fetch token. Periodic refreshes of the active
// conversation reuse it so their results pass the staleness check.
func (n *Navigator) Token() uint64 {
	return n.state.LastFetchToken
}

// Active reports whether a conversation is selected.
func (n *Navigator) Active() bool {
	return n.state.ActiveConversationID != ""
}
