package models

import "time"

// ErrorPrefix marks story text that carries a generation failure instead of a story
const ErrorPrefix = "Error: "

// Result is the output of the latest generation in a session. The zero value
// means nothing has been generated yet. Results are never mutated; a new
// generation replaces the previous Result.
type Result struct {
	text        string
	style       string
	model       string
	failed      bool
	generatedAt time.Time
}

// NoResult returns the "none yet" state
func NoResult() Result {
	return Result{}
}

// NewResult wraps a completed story
func NewResult(text, style, model string) Result {
	return Result{
		text:        text,
		style:       style,
		model:       model,
		generatedAt: time.Now().UTC(),
	}
}

// FailedResult renders a generation failure as displayable story text
func FailedResult(err error, style, model string) Result {
	r := NewResult(ErrorPrefix+err.Error(), style, model)
	r.failed = true
	return r
}

// Ready reports whether there is anything to show or download
func (r Result) Ready() bool {
	return !r.generatedAt.IsZero()
}

func (r Result) Text() string  { return r.text }
func (r Result) Style() string { return r.style }
func (r Result) Model() string { return r.model }
func (r Result) Failed() bool  { return r.failed }

// GeneratedAt is the zero time for NoResult
func (r Result) GeneratedAt() time.Time {
	return r.generatedAt
}
