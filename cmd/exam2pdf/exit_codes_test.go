package main

// Notes:
// - exitCodeFor: we test all sentinel errors from exam2pdf and config packages,
//   plus wrapped errors to verify errors.Is() chain works correctly.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	exam2pdf "github.com/alnah/go-exam2pdf"
	"github.com/alnah/go-exam2pdf/internal/config"
	"github.com/alnah/go-exam2pdf/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", exam2pdf.ErrBrowserConnect, ExitBrowser},
		{"page create", exam2pdf.ErrPageCreate, ExitBrowser},
		{"page load", exam2pdf.ErrPageLoad, ExitBrowser},
		{"pdf generation", exam2pdf.ErrPDFGeneration, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", exam2pdf.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read exam", ErrReadExam, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"field invalid", config.ErrFieldInvalid, ExitUsage},
		{"invalid date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"exam parse", exam2pdf.ErrExamParse, ExitUsage},
		{"exam invalid", exam2pdf.ErrExamInvalid, ExitUsage},
		{"invalid page size", exam2pdf.ErrInvalidPageSize, ExitUsage},
		{"invalid orientation", exam2pdf.ErrInvalidOrientation, ExitUsage},
		{"invalid margin", exam2pdf.ErrInvalidMargin, ExitUsage},
		{"invalid footer position", exam2pdf.ErrInvalidFooterPosition, ExitUsage},
		{"style not found", exam2pdf.ErrStyleNotFound, ExitUsage},
		{"template set not found", exam2pdf.ErrTemplateSetNotFound, ExitUsage},
		{"incomplete template set", exam2pdf.ErrIncompleteTemplateSet, ExitUsage},
		{"invalid asset path", exam2pdf.ErrInvalidAssetPath, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix convention compliance
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()
	// Verify exit codes follow Unix conventions
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	// Verify custom codes are below 126 (Unix convention)
	if ExitIO >= 126 {
		t.Errorf("ExitIO = %d, should be < 126", ExitIO)
	}
	if ExitBrowser >= 126 {
		t.Errorf("ExitBrowser = %d, should be < 126", ExitBrowser)
	}
}
