package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

// Document types mirror the on-disk schema.

type stateDoc struct {
	Users  map[int64]userDoc  `json:"users"`
	Guilds map[int64]guildDoc `json:"guilds"`
}

type userDoc struct {
	XP             int64    `json:"xp"`
	XPGuessed      int64    `json:"xp_guessed"`
	XPExplained    int64    `json:"xp_explained"`
	Moonrocks      int64    `json:"moonrocks"`
	WordsGuessed   int64    `json:"words_guessed"`
	WordsExplained int64    `json:"words_explained"`
	WordsChosen    int64    `json:"words_chosen"`
	StartedPlaying *float64 `json:"started_playing"`
	Likes          int64    `json:"likes"`
	Dislikes       int64    `json:"dislikes"`
}

type guildDoc struct {
	TotalWordsGuessed int64          `json:"total_words_guessed"`
	Leaderboard       leaderboardDoc `json:"leaderboard"`
	Language          string         `json:"language"`
	Filter            *bool          `json:"filter"`
}

// leaderboardDoc is a JSON object whose key order is significant: it is
// the tie-break order of the ranking.
type leaderboardDoc []crocodile.LeaderboardEntry

func (l *leaderboardDoc) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("leaderboard: expected object, got %v", tok)
	}

	var entries leaderboardDoc
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(tok.(string), 10, 64)
		if err != nil {
			return fmt.Errorf("leaderboard key %q: %w", tok, err)
		}
		var count int64
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("leaderboard count for %d: %w", id, err)
		}
		entries = append(entries, crocodile.LeaderboardEntry{UserID: id, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = entries
	return nil
}

func (l leaderboardDoc) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.FormatInt(e.UserID, 10)))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(e.Count, 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var errMissingSection = errors.New("missing users or guilds section")

// decodeState parses a state document. Any error means the document is
// corrupted and wraps crocodile.ErrStoreCorrupted.
func decodeState(raw []byte, defaultFilter bool) (crocodile.State, error) {
	var doc stateDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return crocodile.State{}, fmt.Errorf("%w: %w", crocodile.ErrStoreCorrupted, err)
	}
	if doc.Users == nil || doc.Guilds == nil {
		return crocodile.State{}, fmt.Errorf("%w: %w", crocodile.ErrStoreCorrupted, errMissingSection)
	}

	st := crocodile.NewState()
	for id, d := range doc.Users {
		st.Users[id] = &crocodile.User{
			ID:             id,
			XP:             max(0, d.XP),
			XPGuessed:      max(0, d.XPGuessed),
			XPExplained:    max(0, d.XPExplained),
			Moonrocks:      max(0, d.Moonrocks),
			WordsGuessed:   max(0, d.WordsGuessed),
			WordsExplained: max(0, d.WordsExplained),
			WordsChosen:    max(0, d.WordsChosen),
			Likes:          max(0, d.Likes),
			Dislikes:       max(0, d.Dislikes),
			StartedPlaying: fromUnixSeconds(d.StartedPlaying),
		}
	}
	for id, d := range doc.Guilds {
		g := &crocodile.Guild{
			ID:                id,
			Language:          d.Language,
			Filter:            defaultFilter,
			TotalWordsGuessed: max(0, d.TotalWordsGuessed),
		}
		if d.Filter != nil {
			g.Filter = *d.Filter
		}
		for _, e := range d.Leaderboard {
			g.Leaderboard.Set(e.UserID, max(0, e.Count))
		}
		st.Guilds[id] = g
	}
	return st, nil
}

// encodeState renders st with 4-space indentation and unescaped non-ASCII
// text.
func encodeState(st crocodile.State) ([]byte, error) {
	doc := stateDoc{
		Users:  make(map[int64]userDoc, len(st.Users)),
		Guilds: make(map[int64]guildDoc, len(st.Guilds)),
	}
	for id, u := range st.Users {
		doc.Users[id] = userDoc{
			XP:             u.XP,
			XPGuessed:      u.XPGuessed,
			XPExplained:    u.XPExplained,
			Moonrocks:      u.Moonrocks,
			WordsGuessed:   u.WordsGuessed,
			WordsExplained: u.WordsExplained,
			WordsChosen:    u.WordsChosen,
			StartedPlaying: toUnixSeconds(u.StartedPlaying),
			Likes:          u.Likes,
			Dislikes:       u.Dislikes,
		}
	}
	for id, g := range st.Guilds {
		filter := g.Filter
		lb := leaderboardDoc(g.Leaderboard.Entries())
		if lb == nil {
			lb = leaderboardDoc{}
		}
		doc.Guilds[id] = guildDoc{
			TotalWordsGuessed: g.TotalWordsGuessed,
			Leaderboard:       lb,
			Language:          g.Language,
			Filter:            &filter,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return buf.Bytes(), nil
}

func fromUnixSeconds(sec *float64) time.Time {
	if sec == nil {
		return time.Time{}
	}
	whole, frac := math.Modf(*sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func toUnixSeconds(t time.Time) *float64 {
	if t.IsZero() {
		return nil
	}
	sec := float64(t.UnixNano()) / 1e9
	return &sec
}
