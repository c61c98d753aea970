package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreDefaultIsOffered(t *testing.T) {
	assert.True(t, IsGenre(DefaultGenre))
	assert.True(t, IsTone(DefaultTone))
	assert.True(t, IsLength(DefaultLength))
	assert.Len(t, Genres, 33)
	assert.Equal(t, "Cyberpunk", Genres[2])
}

func TestClampCharacterCount(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{4, 4},
		{9, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampCharacterCount(tt.in), "count %d", tt.in)
	}
}

func TestStoryParams_Normalize(t *testing.T) {
	t.Run("unknown enums fall back to defaults", func(t *testing.T) {
		p := StoryParams{Genre: "Opera", Tone: "", Length: "Epic"}.Normalize()
		assert.Equal(t, DefaultGenre, p.Genre)
		assert.Equal(t, DefaultTone, p.Tone)
		assert.Equal(t, DefaultLength, p.Length)
	})

	t.Run("known enums are kept", func(t *testing.T) {
		p := StoryParams{Genre: "Noir", Tone: "Bleak", Length: "Extended"}.Normalize()
		assert.Equal(t, "Noir", p.Genre)
		assert.Equal(t, "Bleak", p.Tone)
		assert.Equal(t, "Extended", p.Length)
	})

	t.Run("characters capped at four", func(t *testing.T) {
		in := StoryParams{Characters: []Character{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}}}
		p := in.Normalize()
		require.Len(t, p.Characters, MaxCharacters)
		assert.Equal(t, "d", p.Characters[3].Name)
		assert.Len(t, in.Characters, 5, "input must not be modified")
	})

	t.Run("free text untouched", func(t *testing.T) {
		p := StoryParams{Setting: "  <b>pier</b>  ", Directives: "line1\nline2"}.Normalize()
		assert.Equal(t, "  <b>pier</b>  ", p.Setting)
		assert.Equal(t, "line1\nline2", p.Directives)
	})
}

func TestStoryParams_NamedCharacters(t *testing.T) {
	p := StoryParams{Characters: []Character{
		{Name: "Mara", Role: "Detective"},
		{Name: "", Role: "Ghost"},
		{Name: "   ", Role: "Blank"},
		{Name: "Kael"},
	}}

	named := p.NamedCharacters()
	require.Len(t, named, 2)
	assert.Equal(t, "Mara", named[0].Name)
	assert.Equal(t, "Kael", named[1].Name)
}

func TestDefaultStoryParams(t *testing.T) {
	p := DefaultStoryParams()
	assert.Equal(t, "Cyberpunk", p.Genre)
	assert.Equal(t, "Neutral", p.Tone)
	assert.Equal(t, "Short", p.Length)
	assert.Len(t, p.Characters, 1)
}

func TestResult(t *testing.T) {
	t.Run("none yet", func(t *testing.T) {
		r := NoResult()
		assert.False(t, r.Ready())
		assert.Empty(t, r.Text())
		assert.True(t, r.GeneratedAt().IsZero())
	})

	t.Run("story text", func(t *testing.T) {
		r := NewResult("It rained.", "Classic (Balanced)", "llama-3.1-70b-versatile")
		assert.True(t, r.Ready())
		assert.False(t, r.Failed())
		assert.Equal(t, "It rained.", r.Text())
		assert.Equal(t, "Classic (Balanced)", r.Style())
		assert.Equal(t, "llama-3.1-70b-versatile", r.Model())
	})

	t.Run("failure rendered as text", func(t *testing.T) {
		r := FailedResult(errors.New("401 Unauthorized"), "s", "m")
		assert.True(t, r.Ready())
		assert.True(t, r.Failed())
		assert.Equal(t, "Error: 401 Unauthorized", r.Text())
	})
}
