package embedded

import (
	_ "embed"
)

// SystemPromptTxt is the fixed system instruction sent with every completion
//
//go:embed data/prompts/system_prompt.txt
var SystemPromptTxt []byte

// StylesYAML is the default narrative style catalog
//
//go:embed data/catalog/styles.yaml
var StylesYAML []byte

//go:embed data/web/page.html.tmpl
var PageTemplate []byte

//go:embed data/web/story.css
var StoryCSS []byte
