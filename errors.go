package exam2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilExam        = errors.New("exam cannot be nil")
	ErrExamParse      = errors.New("failed to parse exam")
	ErrExamInvalid    = errors.New("invalid exam")
	ErrTemplateParse  = errors.New("template parsing failed")
	ErrTemplateRender = errors.New("template rendering failed")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")

	// Pool errors.
	ErrPoolClosed = errors.New("builder pool is closed")
)
