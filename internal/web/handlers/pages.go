package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Conceptual-Machines/story-api/internal/logger"
	"github.com/Conceptual-Machines/story-api/internal/models"
	"github.com/Conceptual-Machines/story-api/internal/session"
	"github.com/Conceptual-Machines/story-api/internal/story"
	"github.com/Conceptual-Machines/story-api/internal/web/templates"
	"github.com/gin-gonic/gin"
)

const (
	downloadFilename    = "story.md"
	downloadContentType = "text/plain; charset=utf-8"
)

type WebHandler struct {
	stories  *story.Service
	sessions *session.Manager
}

func NewWebHandler(stories *story.Service, sessions *session.Manager) *WebHandler {
	return &WebHandler{
		stories:  stories,
		sessions: sessions,
	}
}

// Home renders the form with the session's last parameters and result
func (h *WebHandler) Home(c *gin.Context) {
	state := h.sessions.Load(c)
	h.renderPage(c, http.StatusOK, state, nil)
}

// Generate runs one completion for the submitted form. A missing credential
// re-renders the form with a banner; anything else redirects back to Home.
func (h *WebHandler) Generate(c *gin.Context) {
	state := h.sessions.Load(c)
	params := ParseStoryForm(c)

	result, err := h.stories.Generate(c.Request.Context(), params)
	switch {
	case errors.Is(err, story.ErrMissingCredential):
		state.Params = params
		h.renderPage(c, http.StatusOK, state, err)
		return
	case err != nil:
		logger.Error("Story generation aborted", err, logger.WithContext(c))
		c.String(http.StatusInternalServerError, "Failed to generate story")
		return
	}

	if err := h.sessions.Save(c, state.WithResult(params, result)); err != nil {
		logger.Error("Failed to save session", err, logger.WithContext(c))
		c.String(http.StatusInternalServerError, "Failed to save session")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Download serves the last result text, error text included, as story.md
func (h *WebHandler) Download(c *gin.Context) {
	result := h.sessions.Load(c).Result
	if !result.Ready() {
		c.String(http.StatusNotFound, "No story generated yet")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	c.Data(http.StatusOK, downloadContentType, []byte(result.Text()))
}

func (h *WebHandler) renderPage(c *gin.Context, status int, state session.State, configErr error) {
	data := templates.NewPageData(state, h.stories.Catalog().Labels(), configErr)

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	component := templates.Page(data)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to render template", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}

// ParseStoryForm reads the story form. The protagonist count is clamped to
// the allowed range and only that many slots are read.
func ParseStoryForm(c *gin.Context) models.StoryParams {
	count, err := strconv.Atoi(c.PostForm("character_count"))
	if err != nil {
		count = models.MinCharacters
	}
	count = models.ClampCharacterCount(count)

	characters := make([]models.Character, count)
	for i := range characters {
		characters[i] = models.Character{
			Name: c.PostForm(templates.SlotField("name", i)),
			Role: c.PostForm(templates.SlotField("role", i)),
		}
	}

	params := models.StoryParams{
		Genre:      c.PostForm("genre"),
		Tone:       c.PostForm("tone"),
		Length:     c.PostForm("length"),
		Characters: characters,
		Setting:    c.PostForm("setting"),
		Directives: c.PostForm("directives"),
		Style:      c.PostForm("style"),
	}
	return params.Normalize()
}
