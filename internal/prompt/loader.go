package prompt

import (
	"errors"
	"strings"

	"github.com/Conceptual-Machines/story-api/pkg/embedded"
)

var errEmptySystemPrompt = errors.New("embedded system prompt is empty")

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetSystemPrompt loads the storyteller system prompt
func (l *Loader) GetSystemPrompt() (string, error) {
	content := strings.TrimSpace(string(embedded.SystemPromptTxt))
	if content == "" {
		return "", errEmptySystemPrompt
	}
	return content, nil
}
