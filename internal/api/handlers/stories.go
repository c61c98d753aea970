package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/story-api/internal/logger"
	"github.com/Conceptual-Machines/story-api/internal/models"
	"github.com/Conceptual-Machines/story-api/internal/prompt"
	"github.com/Conceptual-Machines/story-api/internal/story"
	"github.com/Conceptual-Machines/story-api/internal/styles"
	"github.com/gin-gonic/gin"
)

const maxRequestBodyBytes = 64 << 10

type StoryHandler struct {
	stories *story.Service
}

func NewStoryHandler(stories *story.Service) *StoryHandler {
	return &StoryHandler{stories: stories}
}

type StoryResponse struct {
	Text        string `json:"text"`
	Style       string `json:"style"`
	Model       string `json:"model"`
	Failed      bool   `json:"failed"`
	GeneratedAt string `json:"generated_at"`
}

type StyleResponse struct {
	Label      string `json:"label"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Deprecated bool   `json:"deprecated"`
}

type OptionsResponse struct {
	Genres        []string `json:"genres"`
	Tones         []string `json:"tones"`
	Lengths       []string `json:"lengths"`
	Styles        []string `json:"styles"`
	MinCharacters int      `json:"min_characters"`
	MaxCharacters int      `json:"max_characters"`
	Defaults      any      `json:"defaults"`
}

// Generate runs one completion. A provider failure still answers 200 with
// failed=true and the error text, matching what the web form shows.
func (h *StoryHandler) Generate(c *gin.Context) {
	params, ok := bindParams(c)
	if !ok {
		return
	}

	result, err := h.stories.Generate(c.Request.Context(), params)
	switch {
	case errors.Is(err, story.ErrMissingCredential):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error("Story generation aborted", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate story"})
		return
	}

	c.JSON(http.StatusOK, StoryResponse{
		Text:        result.Text(),
		Style:       result.Style(),
		Model:       result.Model(),
		Failed:      result.Failed(),
		GeneratedAt: result.GeneratedAt().Format(time.RFC3339),
	})
}

// PreviewPrompt returns the assembled user prompt without calling a model
func (h *StoryHandler) PreviewPrompt(c *gin.Context) {
	params, ok := bindParams(c)
	if !ok {
		return
	}

	style := h.stories.Catalog().Resolve(params.Style)
	c.JSON(http.StatusOK, gin.H{
		"style":  style.Label,
		"model":  style.Model,
		"prompt": prompt.Assemble(params.Normalize()),
	})
}

// ListStyles returns the narrative styles in display order
func (h *StoryHandler) ListStyles(c *gin.Context) {
	list := h.stories.Catalog().Styles()
	out := make([]StyleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, StyleResponse{
			Label:      s.Label,
			Provider:   s.Provider,
			Model:      s.Model,
			Deprecated: styles.IsDeprecated(s),
		})
	}
	c.JSON(http.StatusOK, gin.H{"styles": out})
}

// Options returns every value the story form offers
func (h *StoryHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Genres:        models.Genres,
		Tones:         models.Tones,
		Lengths:       models.Lengths,
		Styles:        h.stories.Catalog().Labels(),
		MinCharacters: models.MinCharacters,
		MaxCharacters: models.MaxCharacters,
		Defaults:      models.DefaultStoryParams(),
	})
}

func bindParams(c *gin.Context) (models.StoryParams, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodyBytes)

	var params models.StoryParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return params, false
	}
	if len(params.Characters) > models.MaxCharacters {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d characters are allowed", models.MaxCharacters)})
		return params, false
	}
	return params, true
}
