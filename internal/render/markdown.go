package render

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const markdownExtensions = blackfriday.CommonExtensions | blackfriday.HardLineBreak

var (
	storyPolicyOnce sync.Once
	storyPolicy     *bluemonday.Policy
)

// Markdown renders model output as sanitized HTML. Raw HTML in the text is
// stripped, so a story can never inject markup into the page.
func Markdown(text string) template.HTML {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	raw := blackfriday.Run([]byte(text), blackfriday.WithExtensions(markdownExtensions))
	clean := storySanitizer().SanitizeBytes(raw)

	return template.HTML(strings.TrimSpace(string(clean))) //nolint:gosec // sanitized above
}

func storySanitizer() *bluemonday.Policy {
	storyPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		storyPolicy = policy
	})
	return storyPolicy
}
