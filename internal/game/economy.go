package game

import (
	"context"
	"fmt"

	"github.com/playperu/crocodile/internal/crocodile"
)

// likeBonusXP is the permanent XP an explainer earns per like.
const likeBonusXP = 1

// Transfer moves moonrocks from one player to another. amount is a
// positive integer or "all" to send the entire balance.
func (e *Engine) Transfer(ctx context.Context, fromID, toID int64, amount string) (int64, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b batch
	e.ensureUser(&b, fromID)
	moved, err := e.users.transfer(fromID, toID, amount)
	if err != nil {
		events, err := e.finish(ctx, &b, err)
		return 0, events, err
	}

	e.logger.Info("moonrocks transferred", "from_id", fromID, "to_id", toID, "amount", moved)
	b.add(crocodile.MoonrocksTransferred{FromID: fromID, ToID: toID, Amount: moved})
	events, err := e.finish(ctx, &b, nil)
	return moved, events, err
}

// Like records userID's like on the explanation behind messageID. The
// returned state is the vote the user had already cast; VoteNone means
// this call registered the like.
func (e *Engine) Like(ctx context.Context, messageID, userID int64) (crocodile.VoteState, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prior, events, err := e.vote(ctx, messageID, userID, crocodile.VoteLiked)
	if err != nil || prior != crocodile.VoteNone {
		return prior, events, err
	}

	entry, _ := e.reactions.get(messageID)
	if err := e.users.addXP(entry.ExplainerID, likeBonusXP); err != nil {
		return prior, events, err
	}
	if err := e.store.Commit(ctx, e.state()); err != nil {
		e.logger.Error("committing like bonus", "error", err)
		return prior, events, fmt.Errorf("committing like bonus: %w", err)
	}
	return prior, events, nil
}

// Dislike is Like without the XP bonus.
func (e *Engine) Dislike(ctx context.Context, messageID, userID int64) (crocodile.VoteState, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.vote(ctx, messageID, userID, crocodile.VoteDisliked)
}

func (e *Engine) vote(ctx context.Context, messageID, userID int64, want crocodile.VoteState) (crocodile.VoteState, []crocodile.Event, error) {
	var b batch
	e.ensureUser(&b, userID)

	entry, prior, err := e.reactions.vote(messageID, userID, want)
	if err != nil || prior != crocodile.VoteNone {
		events, err := e.finish(ctx, &b, err)
		return prior, events, err
	}

	explainer := e.ensureUser(&b, entry.ExplainerID)
	if want == crocodile.VoteLiked {
		explainer.Likes++
	} else {
		explainer.Dislikes++
	}
	b.add(crocodile.ExplanationRated{
		MessageID:   messageID,
		VoterID:     userID,
		ExplainerID: entry.ExplainerID,
		Vote:        want,
	})
	events, err := e.finish(ctx, &b, nil)
	return crocodile.VoteNone, events, err
}
