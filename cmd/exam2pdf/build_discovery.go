package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	exam2pdf "github.com/alnah/go-exam2pdf"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .yaml or .yml extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// ExamToBuild represents a single exam file to process.
// Each input produces two PDFs: the exam paper and the answer key.
type ExamToBuild struct {
	InputPath string
	ExamPath  string
	KeyPath   string
}

// discoverExams finds all exam files to build.
// stamp is the formatted date stamp for output names, or "" to omit it.
func discoverExams(inputPath, outputDir, stamp string) ([]ExamToBuild, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateExamExtension(inputPath); err != nil {
			return nil, err
		}
		examPath, keyPath := resolveOutputPaths(inputPath, outputDir, "", stamp)
		return []ExamToBuild{{InputPath: inputPath, ExamPath: examPath, KeyPath: keyPath}}, nil
	}

	var exams []ExamToBuild
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		examPath, keyPath := resolveOutputPaths(path, outputDir, inputPath, stamp)
		exams = append(exams, ExamToBuild{InputPath: path, ExamPath: examPath, KeyPath: keyPath})
		return nil
	})

	return exams, err
}

// resolveOutputPaths determines the exam and key PDF paths for an exam file.
// Default naming is <base>[_<stamp>]_exam.pdf and <base>[_<stamp>]_key.pdf
// next to the input. An explicit .pdf output path overrides the exam paper
// name and the key sits next to it with a _key suffix.
func resolveOutputPaths(inputPath, outputDir, baseInputDir, stamp string) (string, string) {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	if stamp != "" {
		base += "_" + stamp
	}

	if outputDir == "" {
		dir := filepath.Dir(inputPath)
		return filepath.Join(dir, base+"_exam.pdf"), filepath.Join(dir, base+"_key.pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir, strings.TrimSuffix(outputDir, ".pdf") + "_key.pdf"
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+"_exam.pdf"),
				filepath.Join(outputDir, relDir, base+"_key.pdf")
		}
	}

	return filepath.Join(outputDir, base+"_exam.pdf"), filepath.Join(outputDir, base+"_key.pdf")
}

// validateExamExtension checks that the file has a .yaml or .yml extension.
func validateExamExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > exam2pdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, exam2pdf.MaxPoolSize)
	}
	return nil
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, ".pdf") + ".html"
}
