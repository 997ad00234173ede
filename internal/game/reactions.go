package game

import (
	"fmt"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

// reactionLedger tracks votes per announcement message. Entries are kept
// until swept by age.
type reactionLedger struct {
	byMessage map[int64]*crocodile.ReactionEntry
}

func newReactionLedger() *reactionLedger {
	return &reactionLedger{byMessage: make(map[int64]*crocodile.ReactionEntry)}
}

// open creates the entry for messageID. Opening an existing entry keeps
// the votes already cast.
func (l *reactionLedger) open(messageID, explainerID int64, now time.Time) *crocodile.ReactionEntry {
	if e, ok := l.byMessage[messageID]; ok {
		return e
	}
	e := &crocodile.ReactionEntry{MessageID: messageID, ExplainerID: explainerID, OpenedAt: now}
	l.byMessage[messageID] = e
	return e
}

func (l *reactionLedger) get(messageID int64) (*crocodile.ReactionEntry, error) {
	e, ok := l.byMessage[messageID]
	if !ok {
		return nil, fmt.Errorf("reactions for message %d: %w", messageID, crocodile.ErrNotFound)
	}
	return e, nil
}

// vote registers userID's vote. The returned state is the user's prior
// vote; anything other than VoteNone means nothing changed.
func (l *reactionLedger) vote(messageID, userID int64, want crocodile.VoteState) (*crocodile.ReactionEntry, crocodile.VoteState, error) {
	e, err := l.get(messageID)
	if err != nil {
		return nil, crocodile.VoteNone, err
	}
	if e.ExplainerID == userID {
		return e, crocodile.VoteNone, crocodile.ErrSelfVote
	}
	if prior := e.Classify(userID); prior != crocodile.VoteNone {
		return e, prior, nil
	}
	switch want {
	case crocodile.VoteLiked:
		e.Likes = append(e.Likes, userID)
	case crocodile.VoteDisliked:
		e.Dislikes = append(e.Dislikes, userID)
	default:
		return e, crocodile.VoteNone, fmt.Errorf("vote %s: unsupported", want)
	}
	return e, crocodile.VoteNone, nil
}

// prune drops entries opened before cutoff.
func (l *reactionLedger) prune(cutoff time.Time) int {
	n := 0
	for id, e := range l.byMessage {
		if e.OpenedAt.Before(cutoff) {
			delete(l.byMessage, id)
			n++
		}
	}
	return n
}
