package game

import (
	"fmt"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

// sessionRegistry holds at most one active round per channel.
type sessionRegistry struct {
	expiringMap[*crocodile.Session]
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{expiringMap: newExpiringMap[*crocodile.Session]()}
}

func (r *sessionRegistry) start(s crocodile.Session, now time.Time) (*crocodile.Session, error) {
	if _, ok := r.get(s.ChannelID, now); ok {
		return nil, fmt.Errorf("channel %d: %w", s.ChannelID, crocodile.ErrSessionAlreadyActive)
	}
	r.put(s.ChannelID, &s)
	return &s, nil
}

func (r *sessionRegistry) changeWord(channelID int64, word string, now time.Time) (*crocodile.Session, error) {
	s, ok := r.get(channelID, now)
	if !ok {
		return nil, fmt.Errorf("session in channel %d: %w", channelID, crocodile.ErrNotFound)
	}
	s.SetWord(word)
	return s, nil
}

// abandon drops the channel's round whether or not it has expired.
func (r *sessionRegistry) abandon(channelID int64) (*crocodile.Session, bool) {
	return r.remove(channelID)
}

type restrictionRegistry struct {
	expiringMap[crocodile.Restriction]
}

func newRestrictionRegistry() *restrictionRegistry {
	return &restrictionRegistry{expiringMap: newExpiringMap[crocodile.Restriction]()}
}

// open records the cooldown after guesserID concluded a round.
func (r *restrictionRegistry) open(channelID, guesserID int64, until time.Time) crocodile.Restriction {
	res := crocodile.Restriction{ChannelID: channelID, GuesserID: guesserID, ExpiresAt: until}
	r.put(channelID, res)
	return res
}

// check fails with ErrChannelRestricted when an active cooldown keeps
// userID from starting a round.
func (r *restrictionRegistry) check(channelID, userID int64, now time.Time) error {
	res, ok := r.get(channelID, now)
	if ok && !res.Allows(userID) {
		return fmt.Errorf("channel %d until %s: %w", channelID, res.ExpiresAt.Format(time.RFC3339), crocodile.ErrChannelRestricted)
	}
	return nil
}
