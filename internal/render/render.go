// Package render turns a validated exam into its two markdown views:
// the printable exam paper and the answer key. Both views render from
// the same data through text/template, so identical input always
// produces identical markdown.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Sentinel errors for template handling.
var (
	ErrTemplateParse  = errors.New("template parsing failed")
	ErrTemplateRender = errors.New("template rendering failed")
)

// ExamData is the template view of a whole exam.
type ExamData struct {
	Title        string
	Course       string
	Instructions string
	Questions    []QuestionData
}

// QuestionData is the template view of a single question.
// Ordinal is 1-based and already reflects any shuffling.
type QuestionData struct {
	Ordinal int
	Type    string // "multiple_choice" or "short_answer"
	Prompt  string
	Notes   string
	Options []OptionData // empty for short_answer
	Answer  string       // expected answer, key view only
	Lines   int          // write-in lines, exam view only
}

// OptionData is the template view of a multiple choice option.
type OptionData struct {
	Label   string
	Correct bool
}

// Renderer executes the exam and key templates.
type Renderer struct {
	exam *template.Template
	key  *template.Template
}

// NewRenderer parses the exam and key template sources.
// Returns ErrTemplateParse if either template is invalid.
func NewRenderer(examTmpl, keyTmpl string) (*Renderer, error) {
	exam, err := template.New("exam").
		Funcs(templateFuncs()).
		Option("missingkey=error").
		Parse(examTmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: exam template: %v", ErrTemplateParse, err)
	}

	key, err := template.New("key").
		Funcs(templateFuncs()).
		Option("missingkey=error").
		Parse(keyTmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: key template: %v", ErrTemplateParse, err)
	}

	return &Renderer{exam: exam, key: key}, nil
}

// RenderExam renders the exam paper view as markdown.
func (r *Renderer) RenderExam(ctx context.Context, data *ExamData) (string, error) {
	return r.execute(ctx, r.exam, data)
}

// RenderKey renders the answer key view as markdown.
func (r *Renderer) RenderKey(ctx context.Context, data *ExamData) (string, error) {
	return r.execute(ctx, r.key, data)
}

func (r *Renderer) execute(ctx context.Context, tmpl *template.Template, data *ExamData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("%w: nil exam data", ErrTemplateRender)
	}

	// Check for cancellation
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}

// templateFuncs returns the function map available to exam templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"letter": letter,
		"rule":   rule,
	}
}

// letter converts a zero-based option index to its letter label:
// 0 is A, 25 is Z, 26 is AA. Bijective base-26, same scheme as
// spreadsheet columns.
func letter(i int) string {
	if i < 0 {
		return ""
	}

	n := i + 1
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// rule returns a write-in rule of the given width as escaped underscores.
// Underscores must be escaped: a bare run of them on its own line parses
// as a thematic break.
func rule(width int) string {
	if width < 1 {
		return ""
	}
	return strings.Repeat(`\_`, width)
}
