package crocodile

import (
	"fmt"
	"slices"
	"time"
)

// VoteState is how a user rated a round's explanation.
type VoteState int

const (
	VoteNone VoteState = iota
	VoteLiked
	VoteDisliked
)

func (v VoteState) String() string {
	switch v {
	case VoteNone:
		return "none"
	case VoteLiked:
		return "liked"
	case VoteDisliked:
		return "disliked"
	}
	return fmt.Sprintf("VoteState(%d)", int(v))
}

func (v VoteState) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ReactionEntry is the like/dislike tally attached to a concluded round's
// announcement message.
type ReactionEntry struct {
	MessageID   int64
	ExplainerID int64
	Likes       []int64
	Dislikes    []int64
	OpenedAt    time.Time
}

// Classify returns userID's vote on this entry.
func (r *ReactionEntry) Classify(userID int64) VoteState {
	switch {
	case slices.Contains(r.Likes, userID):
		return VoteLiked
	case slices.Contains(r.Dislikes, userID):
		return VoteDisliked
	}
	return VoteNone
}

func (r ReactionEntry) Clone() ReactionEntry {
	r.Likes = slices.Clone(r.Likes)
	r.Dislikes = slices.Clone(r.Dislikes)
	return r
}
