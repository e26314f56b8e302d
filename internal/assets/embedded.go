package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets from the embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadTemplateSet loads a template set from embedded assets by name.
// The name identifies a directory containing exam.md.tmpl and key.md.tmpl.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := "templates/" + name

	exam, examErr := templates.ReadFile(dir + "/exam.md.tmpl")
	key, keyErr := templates.ReadFile(dir + "/key.md.tmpl")

	// If both files are missing, the template set doesn't exist
	if isNotExist(examErr) && isNotExist(keyErr) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}

	// If only one file is missing, the template set is incomplete
	if isNotExist(examErr) {
		return nil, fmt.Errorf("%w: %q missing exam.md.tmpl", ErrIncompleteTemplateSet, name)
	}
	if isNotExist(keyErr) {
		return nil, fmt.Errorf("%w: %q missing key.md.tmpl", ErrIncompleteTemplateSet, name)
	}

	if examErr != nil {
		return nil, fmt.Errorf("%w: reading exam.md.tmpl: %v", ErrAssetRead, examErr)
	}
	if keyErr != nil {
		return nil, fmt.Errorf("%w: reading key.md.tmpl: %v", ErrAssetRead, keyErr)
	}

	return &TemplateSet{
		Name: name,
		Exam: string(exam),
		Key:  string(key),
	}, nil
}

// ListStyles returns the names of all embedded styles, without extensions.
// Used for "available styles" hints when a style is not found.
func (e *EmbeddedLoader) ListStyles() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".css"); ok {
			names = append(names, name)
		}
	}
	return names
}

func isNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
