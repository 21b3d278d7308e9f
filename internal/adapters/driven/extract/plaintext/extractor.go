// Package plaintext provides a text extractor for plain-text and
// markdown files.
package plaintext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Supported file extensions, lowercase.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".rst":      true,
	".log":      true,
}

// Extractor reads plain-text files as-is.
type Extractor struct{}

// New creates a plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether the path has a plain-text extension.
func (e *Extractor) Supports(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract reads the file content.
func (e *Extractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
