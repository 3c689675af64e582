package service

import "strings"

// ResponseBuilder accumulates message lines and flushes them as one
// newline-joined block. It is not safe for concurrent use: build one per
// response instead of sharing an instance between in-flight requests.
type ResponseBuilder struct {
	lines []string
}

// NewResponseBuilder returns an empty builder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// AddLine appends a plain line.
func (b *ResponseBuilder) AddLine(text string) {
	b.lines = append(b.lines, text)
}

// AddBoldLine appends a line wrapped in Markdown bold markers.
func (b *ResponseBuilder) AddBoldLine(text string) {
	b.lines = append(b.lines, "*"+text+"*")
}

// AddEmptyLine appends a blank line.
func (b *ResponseBuilder) AddEmptyLine() {
	b.lines = append(b.lines, "")
}

// Response joins the accumulated lines with newlines and resets the
// builder, so the next block starts clean.
func (b *ResponseBuilder) Response() string {
	msg := strings.Join(b.lines, "\n")
	b.lines = b.lines[:0]
	return msg
}
