package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	sanitizedCSS := sanitizeCSS(cssContent)
	styleBlock := "<style>" + sanitizedCSS + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}

// QuestionWrapper defines the contract for question block wrapping.
type QuestionWrapper interface {
	WrapQuestions(ctx context.Context, htmlContent string) string
}

// QuestionWrapInjection wraps each rendered question in a
// <section class="question"> element so the stylesheet can keep a question
// and its options together on one page (break-inside: avoid).
type QuestionWrapInjection struct{}

// questionStartPattern matches the opening paragraph of a rendered question.
// Templates number questions as bold literals, so each question's HTML
// begins with <p><strong>N.</strong>.
var questionStartPattern = regexp.MustCompile(`<p><strong>\d+\.</strong>`)

// WrapQuestions inserts section boundaries around each question block.
// A question runs from its numbered opening paragraph to the start of the
// next question, or to </body> for the last one. HTML without numbered
// questions is returned unchanged.
func (q *QuestionWrapInjection) WrapQuestions(ctx context.Context, htmlContent string) string {
	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	locs := questionStartPattern.FindAllStringIndex(htmlContent, -1)
	if len(locs) == 0 {
		return htmlContent
	}

	// Close the last section before </body> when present
	end := len(htmlContent)
	if idx := strings.LastIndex(strings.ToLower(htmlContent), "</body>"); idx != -1 && idx >= locs[len(locs)-1][0] {
		end = idx
	}

	var buf strings.Builder
	buf.Grow(len(htmlContent) + len(locs)*40)

	prev := 0
	for i, loc := range locs {
		buf.WriteString(htmlContent[prev:loc[0]])
		if i > 0 {
			buf.WriteString("</section>\n")
		}
		buf.WriteString("<section class=\"question\">\n")
		prev = loc[0]
	}
	buf.WriteString(htmlContent[prev:end])
	buf.WriteString("</section>\n")
	buf.WriteString(htmlContent[end:])

	return buf.String()
}
