// Package scanner walks a firmware directory and assembles the catalog of
// firmware records.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-firmware-index/internal/extractor"
	"github.com/deploymenttheory/go-firmware-index/internal/logger"
	"github.com/deploymenttheory/go-firmware-index/internal/storage"
	"github.com/deploymenttheory/go-firmware-index/internal/types"
)

// filenameRegex is the naming convention gating candidate files:
// <name>-<major>.<minor>.<patch>, matched against the stem. Files that
// fail it get no record at all.
var filenameRegex = regexp.MustCompile(`(.*)-(\d+\.\d+\.\d+)`)

// Scanner inventories firmware files in a directory.
type Scanner struct {
	workers  int
	registry *extractor.Registry
}

// New creates a Scanner processing up to workers files concurrently.
func New(workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		workers:  workers,
		registry: extractor.NewRegistry(),
	}
}

// Scan lists dir and builds a record for every regular file with a
// recognized extension and a convention-matching filename. Records are
// independent: an extraction or digest failure on one file is surfaced on
// that record and never aborts the rest of the scan.
func (s *Scanner) Scan(dir string) (*storage.Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list firmware directory: %w", err)
	}

	catalog := storage.NewCatalog()

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				s.scanFile(dir, name, catalog)
			}
		}()
	}

	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		jobs <- entry.Name()
	}
	close(jobs)
	wg.Wait()

	return catalog, nil
}

// scanFile builds and stores the record for a single directory entry.
func (s *Scanner) scanFile(dir, name string, catalog *storage.Catalog) {
	ext := filepath.Ext(name)
	ex, ok := s.registry.Lookup(ext)
	if !ok {
		return
	}

	stem := strings.TrimSuffix(name, ext)
	match := filenameRegex.FindStringSubmatch(stem)
	if match == nil {
		logger.Debugf("Could not parse firmware details from %s, skipping", name)
		return
	}

	rec := &types.FirmwareRecord{Filename: name}

	if err := ex.Extract(dir, name, rec); err != nil {
		logger.Errorf("Failed to extract metadata from %s: %v", name, err)
		rec.Error = err.Error()
	}

	// The filename convention is the fallback for name and the only source
	// for filename_version; the latter is independent of any embedded
	// version and never overwritten.
	if rec.Name == "" {
		rec.Name = match[1]
	}
	rec.FilenameVersion = match[2]

	path := filepath.Join(dir, name)
	if info, err := os.Stat(path); err != nil {
		logger.Errorf("Failed to stat %s: %v", name, err)
		rec.Error = err.Error()
	} else {
		rec.HumanSize = humanSize(float64(info.Size()))
	}

	if sum, err := fileMD5(path); err != nil {
		logger.Errorf("Failed to checksum %s: %v", name, err)
		rec.Error = err.Error()
	} else {
		rec.Checksum = sum
	}

	if sum, err := fileSHA3(path); err == nil {
		rec.SHA3Hash = sum
	}

	catalog.Store(rec)
}
