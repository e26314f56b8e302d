package main

import (
	"errors"
	"os"

	exam2pdf "github.com/alnah/go-exam2pdf"
	"github.com/alnah/go-exam2pdf/internal/config"
	"github.com/alnah/go-exam2pdf/internal/dateutil"
)

// Exit codes for the exam2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, exam2pdf.ErrBrowserConnect) ||
		errors.Is(err, exam2pdf.ErrPageCreate) ||
		errors.Is(err, exam2pdf.ErrPageLoad) ||
		errors.Is(err, exam2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadExam) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldInvalid) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, exam2pdf.ErrExamParse) ||
		errors.Is(err, exam2pdf.ErrExamInvalid) ||
		errors.Is(err, exam2pdf.ErrInvalidPageSize) ||
		errors.Is(err, exam2pdf.ErrInvalidOrientation) ||
		errors.Is(err, exam2pdf.ErrInvalidMargin) ||
		errors.Is(err, exam2pdf.ErrInvalidFooterPosition) ||
		errors.Is(err, exam2pdf.ErrStyleNotFound) ||
		errors.Is(err, exam2pdf.ErrTemplateSetNotFound) ||
		errors.Is(err, exam2pdf.ErrIncompleteTemplateSet) ||
		errors.Is(err, exam2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
