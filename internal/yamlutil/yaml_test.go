package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-exam2pdf/internal/yamlutil"
)

type testDoc struct {
	Title string `yaml:"title"`
	Count int    `yaml:"count"`
	Draft bool   `yaml:"draft"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("title: Midterm\ncount: 12\ndraft: true"),
			dest: &testDoc{},
			check: func(t *testing.T, v any) {
				doc := v.(*testDoc)
				if doc.Title != "Midterm" {
					t.Errorf("Title = %q, want %q", doc.Title, "Midterm")
				}
				if doc.Count != 12 {
					t.Errorf("Count = %d, want %d", doc.Count, 12)
				}
				if !doc.Draft {
					t.Error("Draft = false, want true")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testDoc{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testDoc{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("title: [unclosed"),
			dest:    &testDoc{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
		{
			name: "unknown field tolerated",
			data: []byte("title: x\nextra_field: ignored"),
			dest: &testDoc{},
			check: func(t *testing.T, v any) {
				doc := v.(*testDoc)
				if doc.Title != "x" {
					t.Errorf("Title = %q, want %q", doc.Title, "x")
				}
			},
		},
		{
			name: "unicode content",
			data: []byte("title: 期末試験"),
			dest: &testDoc{},
			check: func(t *testing.T, v any) {
				doc := v.(*testDoc)
				if doc.Title != "期末試験" {
					t.Errorf("Title = %q, want %q", doc.Title, "期末試験")
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return // exact match via errors.Is
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML with known fields only",
			data: []byte("title: Quiz 3\ncount: 5"),
			dest: &testDoc{},
			check: func(t *testing.T, v any) {
				doc := v.(*testDoc)
				if doc.Title != "Quiz 3" {
					t.Errorf("Title = %q, want %q", doc.Title, "Quiz 3")
				}
				if doc.Count != 5 {
					t.Errorf("Count = %d, want %d", doc.Count, 5)
				}
			},
		},
		{
			name:    "unknown field causes error",
			data:    []byte("title: x\nqestions: oops"),
			dest:    &testDoc{},
			wantErr: errors.New("yamlutil:"), // should error on unknown field
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testDoc{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testDoc{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestErrorWrapping - Verifies error types are detectable via errors.Is
// ---------------------------------------------------------------------------

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	t.Run("ErrNilData is detectable via errors.Is", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal(nil, &testDoc{})
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("errors.Is(err, ErrNilData) = false, want true")
		}
	})

	t.Run("ErrNilDestination is detectable via errors.Is", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal([]byte("title: x"), nil)
		if !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("errors.Is(err, ErrNilDestination) = false, want true")
		}
	})

	t.Run("wrapped errors have yamlutil prefix", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Unmarshal([]byte("invalid: [unclosed"), &testDoc{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want prefix 'yamlutil:'", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	// Save and restore original MaxInputSize
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	t.Run("input at limit succeeds", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 100)
		copy(data, []byte("title: x"))
		var doc testDoc
		err := yamlutil.Unmarshal(data, &doc)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("title: x"))
		var doc testDoc
		err := yamlutil.Unmarshal(data, &doc)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})

	t.Run("error message includes sizes", func(t *testing.T) {
		yamlutil.MaxInputSize = 50
		data := make([]byte, 100)
		var doc testDoc
		err := yamlutil.Unmarshal(data, &doc)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		msg := err.Error()
		if !strings.Contains(msg, "100 bytes") {
			t.Errorf("error should contain actual size, got: %s", msg)
		}
		if !strings.Contains(msg, "max 50") {
			t.Errorf("error should contain max size, got: %s", msg)
		}
	})

	t.Run("UnmarshalStrict also enforces limit", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("title: x"))
		var doc testDoc
		err := yamlutil.UnmarshalStrict(data, &doc)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})
}
