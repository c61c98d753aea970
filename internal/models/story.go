package models

import (
	"slices"
	"strings"
)

// Character bounds for a single story
const (
	MinCharacters = 1
	MaxCharacters = 4
)

// Defaults applied when a field is empty or not one of the offered options
const (
	DefaultGenre  = "Cyberpunk"
	DefaultTone   = "Neutral"
	DefaultLength = "Short"
)

// Genres lists the offered genres in display order
var Genres = []string{
	"Sci-Fi",
	"Fantasy",
	"Cyberpunk",
	"Horror",
	"Noir",
	"Young Adult (YA)",
	"Mystery/Thriller",
	"Romance",
	"LGBTQ+ Fiction",
	"Memoir",
	"Self-Help",
	"Pop Culture Nonfiction",
	"Historical Nonfiction",
	"Investigative Journalism",
	"Abstract",
	"Surreal",
	"Ambient",
	"Experimental",
	"Cinematic",
	"Dystopian",
	"Space Opera",
	"Gothic",
	"Steampunk",
	"Post-Apocalyptic",
	"Mythological",
	"Psychological Thriller",
	"Eldritch Horror",
	"Magical Realism",
	"Historical",
	"Western",
	"Mystery",
	"Hard Sci-Fi",
	"Solarpunk",
}

// Tones is an ordered scale from darkest to brightest
var Tones = []string{"Bleak", "Melancholic", "Neutral", "Hopeful", "Euphoric"}

// Lengths is an ordered scale from shortest to longest
var Lengths = []string{"Flash", "Short", "Extended"}

// Character is one protagonist slot on the form
type Character struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Named reports whether the slot carries a name. Unnamed slots never reach the prompt.
func (c Character) Named() bool {
	return strings.TrimSpace(c.Name) != ""
}

// StoryParams holds everything collected by the story form
type StoryParams struct {
	Genre      string      `json:"genre"`
	Tone       string      `json:"tone"`
	Length     string      `json:"length"`
	Characters []Character `json:"characters"`
	Setting    string      `json:"setting"`
	Directives string      `json:"directives"`
	Style      string      `json:"style"`
}

// DefaultStoryParams returns the values the form starts with
func DefaultStoryParams() StoryParams {
	return StoryParams{
		Genre:      DefaultGenre,
		Tone:       DefaultTone,
		Length:     DefaultLength,
		Characters: []Character{{}},
	}
}

// Normalize replaces unknown enum values with their defaults and caps the
// character list at MaxCharacters. Free text is left untouched.
func (p StoryParams) Normalize() StoryParams {
	out := p
	out.Genre = pick(p.Genre, Genres, DefaultGenre)
	out.Tone = pick(p.Tone, Tones, DefaultTone)
	out.Length = pick(p.Length, Lengths, DefaultLength)

	n := len(p.Characters)
	if n > MaxCharacters {
		n = MaxCharacters
	}
	out.Characters = make([]Character, n)
	copy(out.Characters, p.Characters[:n])
	return out
}

// NamedCharacters returns the named slots in their original order
func (p StoryParams) NamedCharacters() []Character {
	named := make([]Character, 0, len(p.Characters))
	for _, c := range p.Characters {
		if c.Named() {
			named = append(named, c)
		}
	}
	return named
}

// ClampCharacterCount bounds a requested protagonist count to [MinCharacters, MaxCharacters]
func ClampCharacterCount(n int) int {
	if n < MinCharacters {
		return MinCharacters
	}
	if n > MaxCharacters {
		return MaxCharacters
	}
	return n
}

// IsGenre reports whether label is one of the offered genres
func IsGenre(label string) bool {
	return slices.Contains(Genres, label)
}

// IsTone reports whether label is a tone on the scale
func IsTone(label string) bool {
	return slices.Contains(Tones, label)
}

// IsLength reports whether label is a length on the scale
func IsLength(label string) bool {
	return slices.Contains(Lengths, label)
}

func pick(value string, options []string, fallback string) string {
	if slices.Contains(options, value) {
		return value
	}
	return fallback
}

