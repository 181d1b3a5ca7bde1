package chat

import (
	"sort"
	"time"

	"github.com/parleyhq/parley/internal/logger"
)

// Directory builds the ordered list of conversations the current user
// participates in. It is eventually-consistent: a failed refresh leaves the
// previous state untouched (the caller simply does not call Refresh).
type Directory struct {
	currentUserID string
	roster        *Roster
	conversations []Conversation
	warnings      int

	now func() time.Time
}

// NewDirectory returns an empty directory for the given user. The roster is
// an injected shared reference used to resolve other participants.
func NewDirectory(currentUserID string, roster *Roster) *Directory {
	return &Directory{
		currentUserID: currentUserID,
		roster:        roster,
		now:           time.Now,
	}
}

// Refresh rebuilds the directory from raw server records. Malformed records
// (no resolvable other participant) are dropped with a data-integrity
// warning; processing continues for the rest of the batch. Optimistic
// placeholders whose other user now appears in the server data are replaced,
// never duplicated; placeholders the server does not know yet are retained.
// Returns the number of records dropped in this batch.
func (d *Directory) Refresh(raw []RawConversation) int {
	dropped := 0
	next := make([]Conversation, 0, len(raw))
	seenOther := make(map[string]bool, len(raw))

	for _, rec := range raw {
		otherID := otherParticipant(rec.ParticipantIDs, d.currentUserID)
		if len(rec.ParticipantIDs) < 2 || otherID == "" {
			logger.Warn("dropping malformed conversation %s: no resolvable other participant", rec.ID)
			dropped++
			continue
		}
		if seenOther[otherID] {
			logger.Warn("dropping conversation %s: duplicate thread with %s", rec.ID, otherID)
			dropped++
			continue
		}
		seenOther[otherID] = true

		next = append(next, Conversation{
			ID:             rec.ID,
			ParticipantIDs: rec.ParticipantIDs,
			OtherUserID:    otherID,
			Other:          d.roster.Resolve(otherID),
			LatestMessage:  rec.LatestMessage,
			UnseenCount:    rec.UnseenCount,
			CreatedAt:      rec.CreatedAt,
			UpdatedAt:      rec.UpdatedAt,
		})
	}

	// Carry over optimistic placeholders the server has not confirmed yet.
	for _, c := range d.conversations {
		if c.IsPlaceholder() && !seenOther[c.OtherUserID] {
			next = append(next, c)
			seenOther[c.OtherUserID] = true
		}
	}

	sortConversations(next)
	d.conversations = next
	d.warnings += dropped
	return dropped
}

// UpsertOptimistic inserts a placeholder conversation with a temporary id
// immediately after a successful create call, so the UI reflects the new
// thread before the next Refresh. If a conversation with this other user
// already exists it is returned unchanged.
func (d *Directory) UpsertOptimistic(other Participant) Conversation {
	if existing, ok := d.FindByOtherUser(other.ID); ok {
		return existing
	}

	now := d.now()
	conv := Conversation{
		ID:             NewTempID(),
		ParticipantIDs: []string{d.currentUserID, other.ID},
		OtherUserID:    other.ID,
		Other:          other,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	d.conversations = append(d.conversations, conv)
	sortConversations(d.conversations)
	return conv
}

// Conversations returns a copy of the ordered directory.
func (d *Directory) Conversations() []Conversation {
	out := make([]Conversation, len(d.conversations))
	copy(out, d.conversations)
	return out
}

// FindByID returns the conversation with the given id.
func (d *Directory) FindByID(id string) (Conversation, bool) {
	for _, c := range d.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return Conversation{}, false
}

// FindByOtherUser returns the conversation with the given other participant.
func (d *Directory) FindByOtherUser(otherUserID string) (Conversation, bool) {
	for _, c := range d.conversations {
		if c.OtherUserID == otherUserID {
			return c, true
		}
	}
	return Conversation{}, false
}

// SetUnseen overrides the cached unseen count for a conversation, typically
// after the local timeline has reconciled seen-state.
func (d *Directory) SetUnseen(conversationID string, count int) {
	for i := range d.conversations {
		if d.conversations[i].ID == conversationID {
			d.conversations[i].UnseenCount = count
			return
		}
	}
}

// Touch updates a conversation's preview and recency after a local send, so
// the sidebar reorders without waiting for the next refresh.
func (d *Directory) Touch(conversationID string, preview MessagePreview) {
	for i := range d.conversations {
		if d.conversations[i].ID == conversationID {
			p := preview
			d.conversations[i].LatestMessage = &p
			if preview.Timestamp.After(d.conversations[i].UpdatedAt) {
				d.conversations[i].UpdatedAt = preview.Timestamp
			}
			sortConversations(d.conversations)
			return
		}
	}
}

// IntegrityWarnings returns the total number of malformed records dropped
// since the directory was created.
func (d *Directory) IntegrityWarnings() int {
	return d.warnings
}

// Len returns the number of conversations.
func (d *Directory) Len() int {
	return len(d.conversations)
}

// otherParticipant returns the first participant id that is not the current
// user, or "" when none exists.
func otherParticipant(ids []string, currentUserID string) string {
	for _, id := range ids {
		if id != currentUserID && id != "" {
			return id
		}
	}
	return ""
}

// sortConversations orders by UpdatedAt descending, ties by id ascending.
func sortConversations(convs []Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		if !convs[i].UpdatedAt.Equal(convs[j].UpdatedAt) {
			return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
		}
		return convs[i].ID < convs[j].ID
	})
}
