package templates

import (
	"context"
	"html/template"
	"io"
	"strconv"

	"github.com/Conceptual-Machines/story-api/internal/models"
	"github.com/Conceptual-Machines/story-api/internal/render"
	"github.com/Conceptual-Machines/story-api/internal/session"
	"github.com/Conceptual-Machines/story-api/pkg/embedded"
	"github.com/a-h/templ"
)

const (
	pageTitle    = "Story Engine"
	pageSubtitle = "Configure the narrative parameters below."

	// DownloadPath serves the last result as story.md
	DownloadPath = "/download/story.md"
)

var pageTemplate = template.Must(template.New("page").Parse(string(embedded.PageTemplate)))

// Option is one entry of a select control
type Option struct {
	Value    string
	Selected bool
}

// Slot is one protagonist name/role pair
type Slot struct {
	Index  int
	Number int
	Name   string
	Role   string
	Active bool
}

// PageData is everything the story page renders
type PageData struct {
	Title       string
	Subtitle    string
	CSS         template.CSS
	ConfigError string

	Genres  []Option
	Tones   []Option
	Lengths []Option
	Styles  []Option

	MinCharacters  int
	MaxCharacters  int
	CharacterCount int
	Slots          []Slot

	Params models.StoryParams

	HasResult   bool
	Failed      bool
	ResultStyle string
	ResultModel string
	StoryHTML   template.HTML
	DownloadURL string
}

// NewPageData builds the view of a session. styleLabels is the catalog order.
func NewPageData(state session.State, styleLabels []string, configErr error) PageData {
	params := state.Params
	style := params.Style
	if style == "" && len(styleLabels) > 0 {
		style = styleLabels[0]
	}

	count := models.ClampCharacterCount(len(params.Characters))
	data := PageData{
		Title:          pageTitle,
		Subtitle:       pageSubtitle,
		CSS:            template.CSS(embedded.StoryCSS), //nolint:gosec // embedded asset
		Genres:         options(models.Genres, params.Genre),
		Tones:          options(models.Tones, params.Tone),
		Lengths:        options(models.Lengths, params.Length),
		Styles:         options(styleLabels, style),
		MinCharacters:  models.MinCharacters,
		MaxCharacters:  models.MaxCharacters,
		CharacterCount: count,
		Slots:          slots(params.Characters, count),
		Params:         params,
	}

	if configErr != nil {
		data.ConfigError = configErr.Error()
	}

	if result := state.Result; result.Ready() {
		data.HasResult = true
		data.Failed = result.Failed()
		data.ResultStyle = result.Style()
		data.ResultModel = result.Model()
		data.StoryHTML = render.Markdown(result.Text())
		data.DownloadURL = DownloadPath
	}

	return data
}

// Page renders the story form and, when present, the last manuscript
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pageTemplate.Execute(w, data)
	})
}

func options(values []string, selected string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Selected: v == selected}
	}
	return out
}

func slots(characters []models.Character, active int) []Slot {
	out := make([]Slot, models.MaxCharacters)
	for i := range out {
		out[i] = Slot{Index: i, Number: i + 1, Active: i < active}
		if i < len(characters) {
			out[i].Name = characters[i].Name
			out[i].Role = characters[i].Role
		}
	}
	return out
}

// SlotField names the form field of a protagonist slot
func SlotField(kind string, index int) string {
	return "character_" + kind + "_" + strconv.Itoa(index)
}
