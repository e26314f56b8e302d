package exam2pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/alnah/go-exam2pdf/internal/assets"
	"github.com/alnah/go-exam2pdf/internal/fileutil"
	"github.com/alnah/go-exam2pdf/internal/pipeline"
	"github.com/alnah/go-exam2pdf/internal/render"
	"github.com/alnah/go-exam2pdf/internal/shuffle"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.QuestionWrapper      = (*pipeline.QuestionWrapInjection)(nil)
)

// Builder orchestrates the exam-to-PDF pipeline.
// Create with NewBuilder(), call Build() per exam, and Close() when done.
type Builder struct {
	cfg               builderConfig
	assetLoader       assets.AssetLoader // internal loader
	publicAssetLoader AssetLoader        // public loader (from WithAssetLoader)
	renderer          *render.Renderer
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	cssInjector       pipeline.CSSInjector
	questionWrapper   pipeline.QuestionWrapper
	pdfConverter      pdfConverter
}

// publicToInternalAdapter wraps public AssetLoader to internal assets.AssetLoader.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

func (a *publicToInternalAdapter) LoadTemplateSet(name string) (*assets.TemplateSet, error) {
	ts, err := a.pub.LoadTemplateSet(name)
	if err != nil {
		return nil, err
	}
	return &assets.TemplateSet{
		Name: ts.Name,
		Exam: ts.Exam,
		Key:  ts.Key,
	}, nil
}

// NewBuilder creates a Builder with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithStyle,
// WithAssetLoader, WithTemplateSet).
// Returns error if asset loading or template parsing fails.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		cfg:             builderConfig{timeout: defaultTimeout, styleInput: DefaultStyle},
		assetLoader:     assets.NewEmbeddedLoader(),
		preprocessor:    &pipeline.CommonMarkPreprocessor{},
		htmlConverter:   pipeline.NewGoldmarkConverter(),
		cssInjector:     &pipeline.CSSInjection{},
		questionWrapper: &pipeline.QuestionWrapInjection{},
	}

	for _, opt := range opts {
		opt(b)
	}

	// Handle WithAssetPath: resolve to internal loader
	if b.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(b.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		b.assetLoader = resolver
	}

	// Handle WithAssetLoader (public interface): wrap to internal interface
	if b.publicAssetLoader != nil {
		b.assetLoader = &publicToInternalAdapter{pub: b.publicAssetLoader}
	}

	// Resolve style input (name, path, or CSS content) to CSS content
	if err := b.resolveStyle(); err != nil {
		return nil, err
	}

	// Load template set if not already configured via WithTemplateSet
	templateSet := b.cfg.templateSet
	if templateSet == nil {
		ts, err := b.assetLoader.LoadTemplateSet(assets.DefaultTemplateSetName)
		if err != nil {
			return nil, fmt.Errorf("loading default template set: %w", convertAssetError(err))
		}
		templateSet = &TemplateSet{Name: ts.Name, Exam: ts.Exam, Key: ts.Key}
	}

	// Parse templates once; every Build reuses the parsed set
	renderer, err := render.NewRenderer(templateSet.Exam, templateSet.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	b.renderer = renderer

	// Create PDF converter if not injected (e.g., by tests)
	if b.pdfConverter == nil {
		b.pdfConverter = newRodConverter(b.cfg.timeout)
	}

	return b, nil
}

// Build renders both exam views and returns the result containing markdown,
// HTML, and PDF for each. The context is used for cancellation and timeout.
// If input.HTMLOnly is true, PDF generation is skipped (for debugging).
// If input.SkipKey is true, only the exam paper is built.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (b *Builder) Build(ctx context.Context, input Input) (result *BuildResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := b.validateInput(input); err != nil {
		return nil, err
	}

	// Project the exam into template data, applying the shuffle plan.
	// The exam itself is never mutated, so repeated builds are stable.
	examData := toExamData(input.Exam, input.Shuffle)

	res := &BuildResult{}

	// Exam paper view
	examMD, err := b.renderer.RenderExam(ctx, examData)
	if err != nil {
		return nil, fmt.Errorf("%w: exam view: %v", ErrTemplateRender, err)
	}
	res.ExamMarkdown = examMD

	htmlBytes, pdfBytes, err := b.buildDocument(ctx, examMD, input)
	if err != nil {
		return nil, fmt.Errorf("building exam paper: %w", err)
	}
	res.ExamHTML = htmlBytes
	res.ExamPDF = pdfBytes

	if input.SkipKey {
		return res, nil
	}

	// Answer key view
	keyMD, err := b.renderer.RenderKey(ctx, examData)
	if err != nil {
		return nil, fmt.Errorf("%w: key view: %v", ErrTemplateRender, err)
	}
	res.KeyMarkdown = keyMD

	htmlBytes, pdfBytes, err = b.buildDocument(ctx, keyMD, input)
	if err != nil {
		return nil, fmt.Errorf("building answer key: %w", err)
	}
	res.KeyHTML = htmlBytes
	res.KeyPDF = pdfBytes

	return res, nil
}

// buildDocument runs one rendered markdown view through the shared
// markdown-to-PDF pipeline. Returns the final HTML and, unless HTMLOnly
// is set, the PDF bytes.
func (b *Builder) buildDocument(ctx context.Context, markdown string, input Input) ([]byte, []byte, error) {
	// Preprocess markdown
	mdContent := b.preprocessor.PreprocessMarkdown(ctx, markdown)
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	// Convert to HTML
	htmlContent, err := b.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	// Rewrite relative paths to absolute file:// URLs (if source directory provided)
	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	// Convert highlight placeholders to <mark> tags.
	// This completes the ==text== feature started in preprocessing.
	// Done after Goldmark to avoid needing html.WithUnsafe().
	htmlContent = pipeline.ConvertMarkPlaceholders(htmlContent)

	// Build combined CSS: page-break rules first, then the document style,
	// then per-build CSS (last wins on conflicts)
	cssContent := buildPageBreaksCSS() + b.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}

	// Inject CSS
	htmlContent = b.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	// Wrap each question in a <section> so the page-break rules can keep
	// a prompt and its options together
	htmlContent = b.questionWrapper.WrapQuestions(ctx, htmlContent)
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	if input.HTMLOnly {
		return []byte(htmlContent), nil, nil
	}

	// Build PDF options with footer and page settings
	var footData *footerData
	if input.Footer != nil {
		footData = toFooterData(input.Footer)
	}
	pdfOpts := &pdfOptions{
		Footer: footData,
		Page:   input.Page,
	}

	// Convert to PDF
	pdfBytes, err := b.pdfConverter.ToPDF(ctx, htmlContent, pdfOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("converting to PDF: %w", err)
	}

	return []byte(htmlContent), pdfBytes, nil
}

// Close releases resources (headless Chrome browser).
func (b *Builder) Close() error {
	if b.pdfConverter != nil {
		return b.pdfConverter.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. Called during NewBuilder() after options are applied and the
// asset loader is configured.
func (b *Builder) resolveStyle() error {
	input := b.cfg.styleInput
	if input == "" {
		return nil // styling disabled
	}

	// Raw CSS? Checked first: a brace never appears in a name or path,
	// while CSS routinely contains slashes.
	if fileutil.IsCSS(input) {
		b.cfg.resolvedStyle = input
		return nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		b.cfg.resolvedStyle = string(content)
		return nil
	}

	// Style name -> use asset loader
	css, err := b.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	b.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// Exams loaded through ParseExam are validated at parse time. Both paths
// converge here, ensuring all inputs are validated before processing.
func (b *Builder) validateInput(input Input) error {
	if input.Exam == nil {
		return ErrNilExam
	}
	if err := input.Exam.Validate(); err != nil {
		return err
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return nil
}

// toExamData projects the exam into the flat view consumed by the
// templates, applying the shuffle plan and assigning 1-based ordinals in
// final order. Permutations come from a single seeded stream: questions
// first, then each question's options, so every question gets an
// independent but reproducible option order.
func toExamData(e *Exam, override *ShuffleSettings) *render.ExamData {
	settings, seed := e.effectiveShuffle(override)

	var shuf *shuffle.Shuffler
	if settings.Questions || settings.Answers {
		shuf = shuffle.New(seed)
	}

	questionOrder := identityOrder(len(e.Questions))
	if settings.Questions {
		questionOrder = shuf.Perm(len(e.Questions))
	}

	data := &render.ExamData{
		Title:        e.Title,
		Course:       e.Course,
		Instructions: e.Instructions,
		Questions:    make([]render.QuestionData, 0, len(e.Questions)),
	}

	for ordinal, idx := range questionOrder {
		q := &e.Questions[idx]

		optionOrder := identityOrder(len(q.Options))
		if settings.Answers && len(q.Options) > 0 {
			optionOrder = shuf.Perm(len(q.Options))
		}

		options := make([]render.OptionData, 0, len(q.Options))
		for _, oi := range optionOrder {
			options = append(options, render.OptionData{
				Label:   q.Options[oi].Label,
				Correct: q.Options[oi].Correct,
			})
		}

		lines := 0
		if q.Type == QuestionShortAnswer {
			lines = q.AnswerLines()
		}

		data.Questions = append(data.Questions, render.QuestionData{
			Ordinal: ordinal + 1,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Notes:   q.Notes,
			Options: options,
			Answer:  q.Answer,
			Lines:   lines,
		})
	}

	return data
}

// identityOrder returns [0, 1, ..., n-1].
func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// toFooterData converts the public Footer type to the internal footerData.
func toFooterData(f *Footer) *footerData {
	if f == nil {
		return nil
	}
	return &footerData{
		Position:       f.Position,
		ShowPageNumber: f.ShowPageNumber,
		Date:           f.Date,
		Text:           f.Text,
	}
}
