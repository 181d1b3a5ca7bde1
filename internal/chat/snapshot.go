package chat

// Snapshot is the read-only view handed to the renderer, recomputed after
// every core mutation. Slices are copies; mutating a snapshot never affects
// core state.
type Snapshot struct {
	Conversations []Conversation
	Session       SessionState
	Timeline      []Message
	Draft         DraftState
}

// Core bundles the synchronization components for one logged-in user. All
// methods must be called from a single goroutine; fetch and send completions
// are funneled back in by the owner.
type Core struct {
	UserID    string
	Roster    *Roster
	Directory *Directory
	Timeline  *Timeline
	Composer  *Composer
	Navigator *Navigator
}

// NewCore builds a fully wired core for the given user.
func NewCore(userID string) *Core {
	roster := NewRoster()
	timeline := NewTimeline(userID)
	composer := NewComposer()
	return &Core{
		UserID:    userID,
		Roster:    roster,
		Directory: NewDirectory(userID, roster),
		Timeline:  timeline,
		Composer:  composer,
		Navigator: NewNavigator(timeline, composer),
	}
}

// Snapshot builds the renderer view, with unread counts recomputed from the
// loaded timeline where it is authoritative.
func (c *Core) Snapshot() Snapshot {
	convs := c.Directory.Conversations()
	for i := range convs {
		convs[i].UnseenCount = Unseen(c.UserID, convs[i], c.Timeline)
	}
	return Snapshot{
		Conversations: convs,
		Session:       c.Navigator.Session(),
		Timeline:      c.Timeline.Messages(),
		Draft:         c.Composer.Draft(),
	}
}
