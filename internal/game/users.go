package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

// allSentinels transfer the sender's whole balance.
var allSentinels = map[string]bool{
	"all": true,
	"все": true,
	"всё": true,
}

type userLedger struct {
	byID map[int64]*crocodile.User
}

func newUserLedger(users map[int64]*crocodile.User) *userLedger {
	if users == nil {
		users = make(map[int64]*crocodile.User)
	}
	return &userLedger{byID: users}
}

// ensure returns the account for id, creating a zeroed one when missing.
// created reports whether this call made it.
func (l *userLedger) ensure(id int64, now time.Time) (u *crocodile.User, created bool) {
	if u, ok := l.byID[id]; ok {
		return u, false
	}
	u = &crocodile.User{ID: id, StartedPlaying: now}
	l.byID[id] = u
	return u, true
}

func (l *userLedger) get(id int64) (*crocodile.User, error) {
	u, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, crocodile.ErrNotFound)
	}
	return u, nil
}

// awardGuess credits both sides of a concluded round with xp.
func awardGuess(guesser, explainer *crocodile.User, xp int64) {
	guesser.XP += xp
	guesser.XPGuessed += xp
	guesser.WordsGuessed++

	explainer.XP += xp
	explainer.XPExplained += xp
	explainer.WordsExplained++
}

// transfer moves moonrocks between two accounts. The sender must already
// exist; the recipient is never created here.
func (l *userLedger) transfer(fromID, toID int64, spec string) (int64, error) {
	from, err := l.get(fromID)
	if err != nil {
		return 0, err
	}
	to, ok := l.byID[toID]
	if !ok {
		return 0, fmt.Errorf("user %d: %w", toID, crocodile.ErrUnknownRecipient)
	}

	amount, err := parseAmount(spec, from.Moonrocks)
	if err != nil {
		return 0, err
	}
	if amount > from.Moonrocks {
		return 0, fmt.Errorf("have %d, want %d: %w", from.Moonrocks, amount, crocodile.ErrInsufficientFunds)
	}

	from.Moonrocks -= amount
	to.Moonrocks += amount
	return amount, nil
}

// parseAmount reads a positive integer or one of the "all" sentinels.
func parseAmount(spec string, balance int64) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if allSentinels[s] {
		if balance <= 0 {
			return 0, fmt.Errorf("%q with empty balance: %w", spec, crocodile.ErrInvalidAmount)
		}
		return balance, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q: %w", spec, crocodile.ErrInvalidAmount)
	}
	return n, nil
}

// addXP grants permanent experience outside of a round.
func (l *userLedger) addXP(id, amount int64) error {
	u, err := l.get(id)
	if err != nil {
		return err
	}
	u.XP += amount
	return nil
}
