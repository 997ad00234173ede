package crocodile

import "slices"

type LeaderboardEntry struct {
	UserID int64 `json:"userId"`
	Count  int64 `json:"count"`
}

// Leaderboard counts correct guesses per user. Entries keep the order in
// which users first appeared; ranking ties fall back to that order.
// The zero value is an empty leaderboard.
type Leaderboard struct {
	entries []LeaderboardEntry
	index   map[int64]int
}

// Increment adds one to userID's count and returns the new count.
func (l *Leaderboard) Increment(userID int64) int64 {
	i := l.slot(userID)
	l.entries[i].Count++
	return l.entries[i].Count
}

// Set overwrites userID's count, appending the user if unseen.
func (l *Leaderboard) Set(userID, count int64) {
	l.entries[l.slot(userID)].Count = count
}

func (l *Leaderboard) slot(userID int64) int {
	if l.index == nil {
		l.index = make(map[int64]int, len(l.entries))
	}
	if i, ok := l.index[userID]; ok {
		return i
	}
	l.entries = append(l.entries, LeaderboardEntry{UserID: userID})
	l.index[userID] = len(l.entries) - 1
	return len(l.entries) - 1
}

func (l *Leaderboard) Count(userID int64) int64 {
	if i, ok := l.index[userID]; ok {
		return l.entries[i].Count
	}
	return 0
}

func (l *Leaderboard) Len() int { return len(l.entries) }

// Entries returns a copy of all entries in storage order.
func (l *Leaderboard) Entries() []LeaderboardEntry {
	return slices.Clone(l.entries)
}

// Top returns the n best entries sorted by count, descending. Equal counts
// keep storage order. n <= 0 returns every entry.
func (l *Leaderboard) Top(n int) []LeaderboardEntry {
	ranked := l.Entries()
	slices.SortStableFunc(ranked, func(a, b LeaderboardEntry) int {
		switch {
		case a.Count > b.Count:
			return -1
		case a.Count < b.Count:
			return 1
		}
		return 0
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func (l Leaderboard) Clone() Leaderboard {
	var c Leaderboard
	for _, e := range l.entries {
		c.Set(e.UserID, e.Count)
	}
	return c
}
