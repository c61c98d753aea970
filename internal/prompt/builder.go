package prompt

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/story-api/internal/models"
)

// Fallback tokens used when the form leaves a clause empty
const (
	PlaceholderSetting    = "undefined"
	PlaceholderCharacters = "unidentified_entity"
	UnknownRole           = "Unknown"
)

const closingInstruction = "Focus on sensory details, subtext, and immersion. Avoid clichés."

// Builder turns story form parameters into the prompts sent to the model
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{
		loader: NewPromptLoader(),
	}
}

// BuildSystemPrompt returns the system instruction sent with every story
func (b *Builder) BuildSystemPrompt() (string, error) {
	return b.loader.GetSystemPrompt()
}

// BuildUserPrompt assembles the user message for the given parameters
func (b *Builder) BuildUserPrompt(params models.StoryParams) string {
	return Assemble(params)
}

// Assemble builds the story instruction. Free text is passed through verbatim.
func Assemble(params models.StoryParams) string {
	sections := []string{
		briefSection(params),
		closingInstruction,
	}

	return strings.Join(sections, "\n\n")
}

// CharacterClause joins named characters as "Name (Role)" in input order
func CharacterClause(characters []models.Character) string {
	parts := make([]string, 0, len(characters))
	for _, c := range characters {
		if !c.Named() {
			continue
		}
		role := c.Role
		if role == "" {
			role = UnknownRole
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Name, role))
	}

	if len(parts) == 0 {
		return PlaceholderCharacters
	}
	return strings.Join(parts, ", ")
}

func briefSection(params models.StoryParams) string {
	setting := params.Setting
	if setting == "" {
		setting = PlaceholderSetting
	}

	lines := []string{
		fmt.Sprintf("Write a %s story in the %s genre. Tone: %s.",
			strings.ToLower(params.Length), params.Genre, strings.ToLower(params.Tone)),
		fmt.Sprintf("Setting: %s.", setting),
		fmt.Sprintf("Key Characters: %s.", CharacterClause(params.Characters)),
		fmt.Sprintf("Directives: %s", params.Directives),
	}

	return strings.Join(lines, "\n")
}
