package game

import (
	"context"
	"fmt"
	"time"

	"github.com/playperu/crocodile/internal/catalog"
	"github.com/playperu/crocodile/internal/crocodile"
)

type StartRequest struct {
	GuildID     int64
	ChannelID   int64
	MessageID   int64
	StarterID   int64
	StarterName string
}

type GuessRequest struct {
	ChannelID int64
	GuesserID int64
}

// Conclusion is the outcome of a correctly guessed round.
type Conclusion struct {
	Session     crocodile.Session
	Guesser     crocodile.User
	Explainer   crocodile.User
	XP          int64
	Reward      int64
	Restriction crocodile.Restriction
}

// StartSession opens a round in the request's channel with a freshly drawn
// word. The returned session carries the word for the explainer.
func (e *Engine) StartSession(ctx context.Context, req StartRequest) (crocodile.Session, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if err := e.restrictions.check(req.ChannelID, req.StarterID, now); err != nil {
		return crocodile.Session{}, nil, err
	}
	if _, ok := e.sessions.get(req.ChannelID, now); ok {
		return crocodile.Session{}, nil, fmt.Errorf("channel %d: %w", req.ChannelID, crocodile.ErrSessionAlreadyActive)
	}

	var b batch
	guild := e.ensureGuild(&b, req.GuildID)
	word, err := e.pick(guild)
	if err != nil {
		events, err := e.finish(ctx, &b, err)
		return crocodile.Session{}, events, err
	}

	starter := e.ensureUser(&b, req.StarterID)
	starter.WordsChosen++

	s := crocodile.Session{
		ChannelID:   req.ChannelID,
		MessageID:   req.MessageID,
		GuildID:     req.GuildID,
		StarterID:   req.StarterID,
		StarterName: req.StarterName,
		StartedAt:   now,
		ExpiresAt:   now.Add(e.settings.GameLength),
	}
	s.SetWord(word)
	started, err := e.sessions.start(s, now)
	if err != nil {
		events, err := e.finish(ctx, &b, err)
		return crocodile.Session{}, events, err
	}

	e.logger.Info("round started",
		"guild_id", req.GuildID,
		"channel_id", req.ChannelID,
		"starter_id", req.StarterID,
		"reward", started.Reward,
	)
	b.add(crocodile.RoundStarted{
		GuildID:     req.GuildID,
		ChannelID:   req.ChannelID,
		StarterID:   req.StarterID,
		StarterName: req.StarterName,
		ExpiresAt:   started.ExpiresAt,
	})
	events, err := e.finish(ctx, &b, nil)
	return *started, events, err
}

// ChangeWord draws a new word for the explainer of the channel's round.
// The deadline stays where it was.
func (e *Engine) ChangeWord(ctx context.Context, channelID, userID int64) (crocodile.Session, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	s, ok := e.sessions.get(channelID, now)
	if !ok {
		return crocodile.Session{}, nil, fmt.Errorf("session in channel %d: %w", channelID, crocodile.ErrNotFound)
	}
	if s.StarterID != userID {
		return crocodile.Session{}, nil, fmt.Errorf("user %d: %w", userID, crocodile.ErrNotExplainer)
	}

	var b batch
	word, err := e.pick(e.ensureGuild(&b, s.GuildID))
	if err != nil {
		events, err := e.finish(ctx, &b, err)
		return crocodile.Session{}, events, err
	}
	if s, err = e.sessions.changeWord(channelID, word, now); err != nil {
		events, err := e.finish(ctx, &b, err)
		return crocodile.Session{}, events, err
	}
	e.ensureUser(&b, userID).WordsChosen++

	b.add(crocodile.WordChanged{ChannelID: channelID, StarterID: userID, Reward: s.Reward})
	events, err := e.finish(ctx, &b, nil)
	return *s, events, err
}

// AbandonSession ends the channel's round on the explainer's request.
func (e *Engine) AbandonSession(ctx context.Context, channelID, userID int64) (crocodile.Session, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions.get(channelID, e.now())
	if !ok {
		return crocodile.Session{}, nil, fmt.Errorf("session in channel %d: %w", channelID, crocodile.ErrNotFound)
	}
	if s.StarterID != userID {
		return crocodile.Session{}, nil, fmt.Errorf("user %d: %w", userID, crocodile.ErrNotExplainer)
	}
	e.sessions.abandon(channelID)

	e.logger.Info("round abandoned", "channel_id", channelID, "starter_id", userID)
	var b batch
	b.add(crocodile.RoundAbandoned{ChannelID: channelID, StarterID: userID})
	events, err := e.finish(ctx, &b, nil)
	return *s, events, err
}

// MatchGuess reports whether text, once normalized, is the secret word of
// the channel's active round. The explainer never matches.
func (e *Engine) MatchGuess(channelID, userID int64, text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions.get(channelID, e.now())
	if !ok || s.StarterID == userID {
		return false
	}
	return catalog.Normalize(text) == s.Word
}

// RecordGuess concludes the channel's round in favour of the guesser: both
// players earn the word's length in XP, the explainer earns the reward
// and the channel cools down for everyone but the guesser.
func (e *Engine) RecordGuess(ctx context.Context, req GuessRequest) (Conclusion, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	s, ok := e.sessions.get(req.ChannelID, now)
	if !ok {
		return Conclusion{}, nil, fmt.Errorf("session in channel %d: %w", req.ChannelID, crocodile.ErrNotFound)
	}
	if s.StarterID == req.GuesserID {
		return Conclusion{}, nil, fmt.Errorf("user %d: %w", req.GuesserID, crocodile.ErrExplainerGuess)
	}

	var b batch
	guesser := e.ensureUser(&b, req.GuesserID)
	explainer := e.ensureUser(&b, s.StarterID)
	guild := e.ensureGuild(&b, s.GuildID)

	e.sessions.abandon(req.ChannelID)
	restriction := e.restrictions.open(req.ChannelID, req.GuesserID, now.Add(e.settings.RestrictionTime))

	xp := crocodile.WordLength(s.Word)
	awardGuess(guesser, explainer, xp)
	explainer.Moonrocks += s.Reward
	guild.RecordGuess(req.GuesserID)

	e.logger.Info("word guessed",
		"guild_id", s.GuildID,
		"channel_id", req.ChannelID,
		"guesser_id", req.GuesserID,
		"explainer_id", s.StarterID,
		"xp", xp,
		"reward", s.Reward,
		"elapsed", now.Sub(s.StartedAt).Round(time.Millisecond),
	)
	b.add(crocodile.WordGuessed{
		GuildID:     s.GuildID,
		ChannelID:   req.ChannelID,
		GuesserID:   req.GuesserID,
		ExplainerID: s.StarterID,
		Word:        s.Word,
		XP:          xp,
		Reward:      s.Reward,
	})
	events, err := e.finish(ctx, &b, nil)
	return Conclusion{
		Session:     *s,
		Guesser:     *guesser,
		Explainer:   *explainer,
		XP:          xp,
		Reward:      s.Reward,
		Restriction: restriction,
	}, events, err
}

// OpenReactions starts collecting votes on the message announcing a
// concluded round.
func (e *Engine) OpenReactions(ctx context.Context, messageID, explainerID int64) ([]crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b batch
	e.reactions.open(messageID, explainerID, e.now())
	b.dirty = true
	return e.finish(ctx, &b, nil)
}
