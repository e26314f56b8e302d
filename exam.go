package exam2pdf

import (
	"fmt"
	"strings"

	"github.com/alnah/go-exam2pdf/internal/shuffle"
	"github.com/alnah/go-exam2pdf/internal/yamlutil"
)

// Question type constants.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionShortAnswer    = "short_answer"
)

// Write-in line bounds for short answer questions.
const (
	DefaultAnswerLines = 3
	MaxAnswerLines     = 12
)

// Exam is a parsed exam description.
// Title, course, instructions, prompts, and notes may contain markdown.
type Exam struct {
	Title        string           `yaml:"title"`
	Course       string           `yaml:"course"`
	Instructions string           `yaml:"instructions"`
	Shuffle      *ShuffleSettings `yaml:"shuffle"`
	Questions    []Question       `yaml:"questions"`

	// sourceSeed is derived from the raw file bytes by ParseExam and used
	// when shuffling is enabled without an explicit seed.
	sourceSeed int64
}

// Question is a single exam question.
type Question struct {
	Type    string   `yaml:"type"`    // "multiple_choice" or "short_answer"
	Prompt  string   `yaml:"prompt"`  // Required
	Notes   string   `yaml:"notes"`   // Optional remark shown under the prompt
	Options []Option `yaml:"options"` // multiple_choice only, at least 2
	Answer  string   `yaml:"answer"`  // short_answer only, shown in the key
	Lines   *int     `yaml:"lines"`   // short_answer write-in lines (nil = default)
}

// Option is a single multiple choice option.
type Option struct {
	Label   string `yaml:"label"`
	Correct bool   `yaml:"correct"`
}

// ParseExam decodes a YAML exam description and validates it.
// Unknown fields are rejected, so a typo like "qestions" surfaces as an
// error instead of a silently empty exam. Syntax failures wrap
// ErrExamParse; invariant violations wrap ErrExamInvalid and name the
// 1-based question position.
func ParseExam(data []byte) (*Exam, error) {
	var exam Exam
	if err := yamlutil.UnmarshalStrict(data, &exam); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExamParse, err)
	}
	if err := exam.Validate(); err != nil {
		return nil, err
	}
	exam.sourceSeed = shuffle.SeedFromBytes(data)
	return &exam, nil
}

// Validate checks the exam invariants: non-empty title, at least one
// question, and per-question structural rules. Called automatically by
// ParseExam, but available for consumers who construct an Exam manually.
func (e *Exam) Validate() error {
	if e == nil {
		return ErrNilExam
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrExamInvalid)
	}
	if len(e.Questions) == 0 {
		return fmt.Errorf("%w: exam must have at least one question", ErrExamInvalid)
	}
	for i := range e.Questions {
		if err := e.Questions[i].validate(i + 1); err != nil {
			return err
		}
	}
	return nil
}

// validate checks a single question. pos is the 1-based position in the
// exam file, used in error messages.
func (q *Question) validate(pos int) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question %d: prompt cannot be empty", ErrExamInvalid, pos)
	}
	switch q.Type {
	case QuestionMultipleChoice:
		return q.validateMultipleChoice(pos)
	case QuestionShortAnswer:
		return q.validateShortAnswer(pos)
	case "":
		return fmt.Errorf("%w: question %d: type is required", ErrExamInvalid, pos)
	default:
		return fmt.Errorf("%w: question %d: unknown type %q", ErrExamInvalid, pos, q.Type)
	}
}

func (q *Question) validateMultipleChoice(pos int) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %d: multiple_choice needs at least 2 options, got %d",
			ErrExamInvalid, pos, len(q.Options))
	}
	if q.Answer != "" {
		return fmt.Errorf("%w: question %d: answer is only valid for short_answer questions",
			ErrExamInvalid, pos)
	}
	if q.Lines != nil {
		return fmt.Errorf("%w: question %d: lines is only valid for short_answer questions",
			ErrExamInvalid, pos)
	}

	correct := 0
	seen := make(map[string]bool, len(q.Options))
	for j := range q.Options {
		o := &q.Options[j]
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("%w: question %d: option %d: label cannot be empty",
				ErrExamInvalid, pos, j+1)
		}
		if seen[o.Label] {
			return fmt.Errorf("%w: question %d: duplicate option label %q",
				ErrExamInvalid, pos, o.Label)
		}
		seen[o.Label] = true
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: question %d: multiple_choice needs exactly one correct option, got %d",
			ErrExamInvalid, pos, correct)
	}
	return nil
}

func (q *Question) validateShortAnswer(pos int) error {
	if len(q.Options) > 0 {
		return fmt.Errorf("%w: question %d: short_answer cannot have options",
			ErrExamInvalid, pos)
	}
	if q.Lines != nil && (*q.Lines < 0 || *q.Lines > MaxAnswerLines) {
		return fmt.Errorf("%w: question %d: lines must be between 0 and %d, got %d",
			ErrExamInvalid, pos, MaxAnswerLines, *q.Lines)
	}
	return nil
}

// AnswerLines returns the number of write-in lines for a short answer
// question, applying the default when unset.
func (q *Question) AnswerLines() int {
	if q.Lines == nil {
		return DefaultAnswerLines
	}
	return *q.Lines
}

// effectiveShuffle resolves shuffle settings for a build. An override
// (e.g. from CLI flags) wins over the exam's own shuffle block. The
// returned seed is the explicit one when given, otherwise the seed
// derived from the exam file content by ParseExam.
func (e *Exam) effectiveShuffle(override *ShuffleSettings) (settings ShuffleSettings, seed int64) {
	switch {
	case override != nil:
		settings = *override
	case e.Shuffle != nil:
		settings = *e.Shuffle
	}
	seed = e.sourceSeed
	if settings.Seed != nil {
		seed = *settings.Seed
	}
	return settings, seed
}
