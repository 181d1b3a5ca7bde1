package chat

// Unseen computes the unread count for a conversation. When a local timeline
// for that conversation is loaded it is authoritative: the count is the
// number of messages from the other participant not yet marked seen,
// regardless of the server's reported count. Otherwise the server-supplied
// count is used. Pure computation; never mutates.
func Unseen(currentUserID string, conv Conversation, timeline *Timeline) int {
	if timeline == nil || timeline.ConversationID() != conv.ID {
		return conv.UnseenCount
	}

	count := 0
	for _, m := range timeline.Messages() {
		if m.SenderID != currentUserID && !m.Seen {
			count++
		}
	}
	return count
}
