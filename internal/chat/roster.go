package chat

import "sort"

// Roster is the shared participant lookup. It is populated by the user-roster
// fetch and read-only to the rest of the core; it never triggers a network
// call of its own.
type Roster struct {
	byID map[string]Participant
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]Participant)}
}

// SetAll replaces the roster contents with the given users.
func (r *Roster) SetAll(users []RawUser) {
	r.byID = make(map[string]Participant, len(users))
	for _, u := range users {
		r.byID[u.ID] = Participant{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
		}
	}
}

// Add inserts or updates a single participant.
func (r *Roster) Add(p Participant) {
	r.byID[p.ID] = p
}

// Resolve returns the participant for an id. Unknown ids get a synthesized
// placeholder so conversation rendering never blocks on a lookup.
func (r *Roster) Resolve(id string) Participant {
	if p, ok := r.byID[id]; ok {
		return p
	}
	return Participant{
		ID:          id,
		DisplayName: placeholderName(id),
	}
}

// Known reports whether the id is present in the cached roster.
func (r *Roster) Known(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns the roster sorted by display name, ties by id.
func (r *Roster) All() []Participant {
	out := make([]Participant, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of cached participants.
func (r *Roster) Len() int {
	return len(r.byID)
}

// placeholderName derives a display name from a truncated id.
func placeholderName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "User " + id
}
