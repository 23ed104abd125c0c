// Package extractor holds the format-specific metadata extraction
// strategies for firmware files, keyed by file extension.
package extractor

import (
	"strings"

	"github.com/deploymenttheory/go-firmware-index/internal/types"
)

// Extractor defines the interface for format-specific extractors. Extract
// fills the format-derived fields of rec in place; fields it cannot recover
// are left untouched. A non-nil error means the file itself was unreadable,
// not that a field was missing.
type Extractor interface {
	Extract(dir, filename string, rec *types.FirmwareRecord) error
}

// Registry maps file extensions to extractors. Supporting a new firmware
// format is one Register call plus an Extractor implementation.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the recognized firmware formats.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(".bin", &MarkerExtractor{})
	r.Register(".zip", &BundleExtractor{})
	return r
}

// Register adds an extractor for a file extension (including the dot).
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Lookup returns the extractor for a file extension, if any. Extensions
// outside the registry mean the file is not a firmware candidate.
func (r *Registry) Lookup(ext string) (Extractor, bool) {
	e, ok := r.byExt[strings.ToLower(ext)]
	return e, ok
}
