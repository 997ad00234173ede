// Package crocodile defines the core domain types of the word-guessing game.
// It has zero external dependencies.
package crocodile

import (
	"time"
	"unicode/utf8"
)

// User is a player's economy and statistics record. Counters never go
// below zero.
type User struct {
	ID int64

	XP          int64
	XPGuessed   int64
	XPExplained int64
	Moonrocks   int64

	WordsGuessed   int64
	WordsExplained int64
	WordsChosen    int64

	Likes    int64
	Dislikes int64

	StartedPlaying time.Time
}

// Guild holds per-guild settings and the guessing leaderboard.
type Guild struct {
	ID                int64
	Language          string
	Filter            bool
	TotalWordsGuessed int64
	Leaderboard       Leaderboard
}

// Clone returns a deep copy safe to hand out of the engine.
func (g Guild) Clone() Guild {
	g.Leaderboard = g.Leaderboard.Clone()
	return g
}

// RecordGuess counts one correctly guessed word for guesserID.
func (g *Guild) RecordGuess(guesserID int64) {
	g.TotalWordsGuessed++
	g.Leaderboard.Increment(guesserID)
}

// Session is one timed round in a channel.
type Session struct {
	ChannelID   int64
	MessageID   int64
	GuildID     int64
	StarterID   int64
	StarterName string
	Word        string
	Reward      int64
	StartedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the round is over at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SetWord replaces the secret word and recomputes the reward. The expiry
// is left untouched.
func (s *Session) SetWord(word string) {
	s.Word = word
	s.Reward = Reward(word)
}

// Restriction is the cooldown that follows a successful round.
type Restriction struct {
	ChannelID int64
	GuesserID int64
	ExpiresAt time.Time
}

func (r Restriction) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Allows reports whether userID may start a round while r is active.
func (r Restriction) Allows(userID int64) bool {
	return r.GuesserID == userID
}

// State is the persisted part of the game: users and guilds.
type State struct {
	Users  map[int64]*User
	Guilds map[int64]*Guild
}

func NewState() State {
	return State{
		Users:  make(map[int64]*User),
		Guilds: make(map[int64]*Guild),
	}
}

// WordLength is the length of a word in characters.
func WordLength(word string) int64 {
	return int64(utf8.RuneCountInString(word))
}

// Reward is the moonrock payout for explaining word:
// max(0, floor(len/5) - 1).
func Reward(word string) int64 {
	return max(0, WordLength(word)/5-1)
}
