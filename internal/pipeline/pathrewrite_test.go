package pipeline

// Notes:
// - Tests RewriteRelativePaths through its public API only
// - Coverage gaps on error branches in parseHTML/renderHTML are acceptable:
//   the html package rarely fails on valid input and these paths are defensive
// - Path traversal security tests verify the observable behavior (path not
//   rewritten) rather than internal isPathUnderDir implementation

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths - Main Function Tests
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	// Use a consistent test directory based on OS
	sourceDir := "/exams"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\exams`
	}

	tests := []struct {
		name         string
		html         string
		sourceDir    string
		wantContains []string
	}{
		{
			name:         "relative image with dot slash",
			html:         `<img src="./figures/circuit.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="file://`},
		},
		{
			name:         "relative image without dot slash",
			html:         `<img src="figures/circuit.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="file://`},
		},
		{
			name:         "absolute path unchanged",
			html:         `<img src="/abs/circuit.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="/abs/circuit.png"`},
		},
		{
			name:         "http URL unchanged",
			html:         `<img src="https://example.com/circuit.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="https://example.com/circuit.png"`},
		},
		{
			name:         "data URI unchanged",
			html:         `<img src="data:image/png;base64,ABC123">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="data:image/png;base64,ABC123"`},
		},
		{
			name:         "file URL unchanged",
			html:         `<img src="file:///already/absolute.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="file:///already/absolute.png"`},
		},
		{
			name:         "empty sourceDir returns unchanged",
			html:         `<img src="./circuit.png">`,
			sourceDir:    "",
			wantContains: []string{`src="./circuit.png"`},
		},
		{
			name:         "protocol-relative URL unchanged",
			html:         `<img src="//cdn.example.com/circuit.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="//cdn.example.com/circuit.png"`},
		},
		{
			name:         "link NOT rewritten (meaningless in print)",
			html:         `<a href="./syllabus.md">Syllabus</a>`,
			sourceDir:    sourceDir,
			wantContains: []string{`href="./syllabus.md"`},
		},
		{
			name:         "video source NOT rewritten (PDFs don't support media)",
			html:         `<video src="./clip.mp4"></video>`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="./clip.mp4"`},
		},
		{
			name:         "script src NOT rewritten (security)",
			html:         `<script src="./script.js"></script>`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="./script.js"`},
		},
		{
			name:         "multiple images rewritten",
			html:         `<img src="./a.png"><img src="./b.png">`,
			sourceDir:    sourceDir,
			wantContains: []string{`file://`},
		},
		{
			name:         "nested elements rewritten",
			html:         `<div><p><img src="./nested.png"></p></div>`,
			sourceDir:    sourceDir,
			wantContains: []string{`src="file://`},
		},
		{
			name:         "empty src attribute unchanged",
			html:         `<img src="">`,
			sourceDir:    sourceDir,
			wantContains: []string{`src=""`},
		},
		{
			name:         "image without src unchanged",
			html:         `<img alt="no src">`,
			sourceDir:    sourceDir,
			wantContains: []string{`alt="no src"`},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, tt.sourceDir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativePaths() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths_PathTraversal - Security Tests
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths_PathTraversal(t *testing.T) {
	t.Parallel()

	sourceDir := "/exams"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\exams`
	}

	tests := []struct {
		name         string
		html         string
		wantContains string
	}{
		{
			name:         "parent directory traversal blocked",
			html:         `<img src="../../../etc/passwd">`,
			wantContains: `src="../../../etc/passwd"`,
		},
		{
			name:         "double dot in middle blocked",
			html:         `<img src="figures/../../../etc/passwd">`,
			wantContains: `src="figures/../../../etc/passwd"`,
		},
		{
			name:         "valid subdirectory allowed",
			html:         `<img src="./figures/circuit.png">`,
			wantContains: `src="file://`,
		},
		{
			name:         "nested valid path allowed",
			html:         `<img src="figures/unit3/deep/plot.png">`,
			wantContains: `src="file://`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, sourceDir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}

			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("RewriteRelativePaths() = %q, want to contain %q", got, tt.wantContains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths_DocumentTypes - Full Document vs Fragment
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths_FullDocument(t *testing.T) {
	t.Parallel()

	sourceDir := "/exams"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\exams`
	}

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><img src="./circuit.png"></body>
</html>`

	got, err := RewriteRelativePaths(html, sourceDir)
	if err != nil {
		t.Fatalf("RewriteRelativePaths() error = %v", err)
	}

	// Should preserve document structure (html.Render may lowercase DOCTYPE)
	if !strings.Contains(strings.ToLower(got), "doctype") {
		t.Error("Full document should preserve DOCTYPE")
	}
	if !strings.Contains(got, "<html") {
		t.Error("Full document should preserve <html>")
	}
	if !strings.Contains(got, `src="file://`) {
		t.Error("Image path should be rewritten")
	}
}

func TestRewriteRelativePaths_Fragment(t *testing.T) {
	t.Parallel()

	sourceDir := "/exams"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\exams`
	}

	html := `<p>Hello</p><img src="./circuit.png"><p>World</p>`

	got, err := RewriteRelativePaths(html, sourceDir)
	if err != nil {
		t.Fatalf("RewriteRelativePaths() error = %v", err)
	}

	// Fragment should NOT be wrapped in <html><body>
	if strings.Contains(got, "<html>") {
		t.Error("Fragment should not be wrapped in <html>")
	}

	// Original structure preserved
	if !strings.Contains(got, "<p>Hello</p>") {
		t.Error("Fragment should preserve content")
	}

	// Image rewritten
	if !strings.Contains(got, `src="file://`) {
		t.Error("Image path should be rewritten")
	}
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths_AttributePreservation - Attribute Handling
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths_PreservesAttributes(t *testing.T) {
	t.Parallel()

	sourceDir := "/exams"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\exams`
	}

	html := `<img src="./circuit.png" alt="Circuit" class="figure" width="100">`

	got, err := RewriteRelativePaths(html, sourceDir)
	if err != nil {
		t.Fatalf("RewriteRelativePaths() error = %v", err)
	}

	// All attributes should be preserved
	checks := []string{`alt="Circuit"`, `class="figure"`, `width="100"`, `src="file://`}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("Should contain %q, got %q", check, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths_URLEncoding - Special Characters
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths_URLEncoding(t *testing.T) {
	t.Parallel()

	sourceDir := "/exams"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\exams`
	}

	tests := []struct {
		name         string
		html         string
		wantContains string
	}{
		{
			name:         "path with spaces encoded",
			html:         `<img src="./unit 3/plot.png">`,
			wantContains: `unit%203`,
		},
		{
			name:         "path with special chars encoded",
			html:         `<img src="./figures/plot#1.png">`,
			wantContains: `plot%231.png`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, sourceDir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}

			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("RewriteRelativePaths() = %q, want to contain %q", got, tt.wantContains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsRelativePath - Helper Function Tests
// ---------------------------------------------------------------------------

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		// Relative paths (should return true)
		{"./image.png", true},
		{"figures/circuit.png", true},
		{"../parent.png", true},
		{"file.png", true},
		{"sub/dir/file.png", true},

		// Non-relative paths (should return false)
		{"", false},
		{"http://example.com/img.png", false},
		{"https://example.com/img.png", false},
		{"file:///abs/path.png", false},
		{"data:image/png;base64,ABC", false},
		{"//cdn.example.com/img.png", false},
		{"#anchor", false},
		{"/absolute/path.png", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := isRelativePath(tt.path); got != tt.want {
				t.Errorf("isRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsPathUnderDir - Security Helper Tests
// ---------------------------------------------------------------------------

func TestIsPathUnderDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		absPath string
		dir     string
		want    bool
	}{
		{
			name:    "direct child",
			absPath: "/exams/image.png",
			dir:     "/exams",
			want:    true,
		},
		{
			name:    "nested child",
			absPath: "/exams/figures/circuit.png",
			dir:     "/exams",
			want:    true,
		},
		{
			name:    "parent directory",
			absPath: "/etc/passwd",
			dir:     "/exams",
			want:    false,
		},
		{
			name:    "sibling directory",
			absPath: "/other/file.png",
			dir:     "/exams",
			want:    false,
		},
		{
			name:    "dir with trailing slash",
			absPath: "/exams/image.png",
			dir:     "/exams/",
			want:    true,
		},
		{
			name:    "similar prefix but different dir",
			absPath: "/exams-other/image.png",
			dir:     "/exams",
			want:    false,
		},
		{
			name:    "exact match",
			absPath: "/exams",
			dir:     "/exams",
			want:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Normalize paths for the current OS
			absPath := filepath.FromSlash(tt.absPath)
			dir := filepath.FromSlash(tt.dir)

			if got := isPathUnderDir(absPath, dir); got != tt.want {
				t.Errorf("isPathUnderDir(%q, %q) = %v, want %v", absPath, dir, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPathToFileURL - URL Generation Tests
// ---------------------------------------------------------------------------

func TestPathToFileURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		absPath string
		want    string
	}{
		{
			name:    "unix path",
			absPath: "/exams/figures/circuit.png",
			want:    "file:///exams/figures/circuit.png",
		},
		{
			name:    "path with spaces",
			absPath: "/exams/unit 3/plot.png",
			want:    "file:///exams/unit%203/plot.png",
		},
		{
			name:    "path with unicode",
			absPath: "/exams/日本語/plot.png",
			want:    "file:///exams/%E6%97%A5%E6%9C%AC%E8%AA%9E/plot.png",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if runtime.GOOS == "windows" && !strings.Contains(tt.absPath, ":") {
				t.Skip("Unix path test skipped on Windows")
			}

			got := pathToFileURL(tt.absPath)
			if got != tt.want {
				t.Errorf("pathToFileURL(%q) = %q, want %q", tt.absPath, got, tt.want)
			}
		})
	}
}
