// Package catalog loads the word lists the game draws secret words from.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/playperu/crocodile/internal/crocodile"
)

// Document is the configuration file listing the available languages.
type Document struct {
	DefaultLanguage string           `json:"default_language"`
	Languages       map[string]Entry `json:"languages"`
}

type Entry struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Emoji string `json:"emoji"`
}

// Language is a loaded word list. It is immutable once loaded.
type Language struct {
	Key   string
	Name  string
	Emoji string
	File  string

	// Words holds every normalized token, FilteredWords only the purely
	// alphabetic ones. Both are sorted and free of duplicates.
	Words         []string
	FilteredWords []string
}

// Load reads a newline-delimited UTF-8 word list.
func Load(key, file string) (*Language, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading word list %q: %w", key, err)
	}

	seen := make(map[string]struct{})
	for line := range strings.SplitSeq(string(raw), "\n") {
		if w := Normalize(line); w != "" {
			seen[w] = struct{}{}
		}
	}

	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	slices.Sort(words)

	var filtered []string
	for _, w := range words {
		if IsAlphabetic(w) {
			filtered = append(filtered, w)
		}
	}

	return &Language{
		Key:           key,
		File:          file,
		Words:         words,
		FilteredWords: filtered,
	}, nil
}

// Pick draws a uniformly random word from the full or the filtered list.
func (l *Language) Pick(rng *rand.Rand, useFiltered bool) (string, error) {
	words := l.Words
	if useFiltered {
		words = l.FilteredWords
	}
	if len(words) == 0 {
		return "", fmt.Errorf("language %q: %w", l.Key, crocodile.ErrEmptyVocabulary)
	}
	return words[rng.IntN(len(words))], nil
}

// Catalog is the set of languages configured for the game.
type Catalog struct {
	defaultKey string
	languages  map[string]*Language
}

// New builds a catalog from already loaded languages.
func New(defaultKey string, langs ...*Language) (*Catalog, error) {
	c := &Catalog{defaultKey: defaultKey, languages: make(map[string]*Language, len(langs))}
	for _, l := range langs {
		c.languages[l.Key] = l
	}
	if _, ok := c.languages[defaultKey]; !ok {
		return nil, fmt.Errorf("default language %q: %w", defaultKey, crocodile.ErrUnknownLanguage)
	}
	return c, nil
}

// LoadCatalog reads the configuration document at configPath and loads every
// language it lists. Word list paths are resolved against langDir.
func LoadCatalog(logger *slog.Logger, configPath, langDir string) (*Catalog, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog config: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog config: %w", err)
	}

	langs := make([]*Language, 0, len(doc.Languages))
	for key, entry := range doc.Languages {
		logger.Info("loading language", "key", key, "file", entry.File)
		l, err := Load(key, filepath.Join(langDir, entry.File))
		if err != nil {
			return nil, err
		}
		l.Name = entry.Name
		l.Emoji = entry.Emoji
		logger.Info("language loaded",
			"key", key,
			"words", len(l.Words),
			"filtered_words", len(l.FilteredWords),
		)
		langs = append(langs, l)
	}

	return New(doc.DefaultLanguage, langs...)
}

func (c *Catalog) Default() string { return c.defaultKey }

func (c *Catalog) Get(key string) (*Language, bool) {
	l, ok := c.languages[key]
	return l, ok
}

func (c *Catalog) Len() int { return len(c.languages) }

// Keys returns the language keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.languages))
	for k := range c.languages {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
