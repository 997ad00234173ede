package crocodile

import "time"

// Event is something noteworthy that happened while handling a call. The
// front-end renders events; the ops feed streams them.
type Event interface {
	Kind() string
	event()
}

type AccountCreated struct {
	UserID int64 `json:"userId"`
}

type GuildCreated struct {
	GuildID int64 `json:"guildId"`
}

type RoundStarted struct {
	GuildID     int64     `json:"guildId"`
	ChannelID   int64     `json:"channelId"`
	StarterID   int64     `json:"starterId"`
	StarterName string    `json:"starterName"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// WordChanged never carries the new word; only the explainer may see it.
type WordChanged struct {
	ChannelID int64 `json:"channelId"`
	StarterID int64 `json:"starterId"`
	Reward    int64 `json:"reward"`
}

type RoundAbandoned struct {
	ChannelID int64 `json:"channelId"`
	StarterID int64 `json:"starterId"`
}

type WordGuessed struct {
	GuildID     int64  `json:"guildId"`
	ChannelID   int64  `json:"channelId"`
	GuesserID   int64  `json:"guesserId"`
	ExplainerID int64  `json:"explainerId"`
	Word        string `json:"word"`
	XP          int64  `json:"xp"`
	Reward      int64  `json:"reward"`
}

type MoonrocksTransferred struct {
	FromID int64 `json:"fromId"`
	ToID   int64 `json:"toId"`
	Amount int64 `json:"amount"`
}

type ExplanationRated struct {
	MessageID   int64     `json:"messageId"`
	VoterID     int64     `json:"voterId"`
	ExplainerID int64     `json:"explainerId"`
	Vote        VoteState `json:"vote"`
}

func (AccountCreated) Kind() string       { return "account_created" }
func (GuildCreated) Kind() string         { return "guild_created" }
func (RoundStarted) Kind() string         { return "round_started" }
func (WordChanged) Kind() string          { return "word_changed" }
func (RoundAbandoned) Kind() string       { return "round_abandoned" }
func (WordGuessed) Kind() string          { return "word_guessed" }
func (MoonrocksTransferred) Kind() string { return "moonrocks_transferred" }
func (ExplanationRated) Kind() string     { return "explanation_rated" }

func (AccountCreated) event()       {}
func (GuildCreated) event()         {}
func (RoundStarted) event()         {}
func (WordChanged) event()          {}
func (RoundAbandoned) event()       {}
func (WordGuessed) event()          {}
func (MoonrocksTransferred) event() {}
func (ExplanationRated) event()     {}
