package assets

// TemplateSet holds the two markdown templates rendered from one exam.
// A template set contains an exam paper view and an answer key view that
// work together.
type TemplateSet struct {
	Name string // Identifier (name or directory path)
	Exam string // Exam paper template content (exam.md.tmpl)
	Key  string // Answer key template content (key.md.tmpl)
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"
