package exam2pdf

import "fmt"

// defaultFontFamily is the standard font stack for PDF footers.
const defaultFontFamily = "sans-serif"

// Orphan/widow line minimums for print layout.
const (
	defaultOrphans = 3
	defaultWidows  = 3
)

// buildPageBreaksCSS generates CSS for page break control. Always applied,
// even when styling is disabled: each question stays on one page, and a
// heading is never left alone at a page bottom. Both the modern and the
// legacy page-break properties are emitted for print engine coverage.
func buildPageBreaksCSS() string {
	return fmt.Sprintf(`
/* Page breaks: keep each question on one page */
section.question {
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Page breaks: prevent heading alone at page bottom */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Page breaks: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: %d;
  widows: %d;
}
`, defaultOrphans, defaultWidows)
}
