package storage

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/deploymenttheory/go-firmware-index/internal/types"
)

// Document is the JSON output structure written for downstream tooling.
type Document struct {
	GeneratedAt time.Time                        `json:"generated_at"`
	Stats       types.CatalogStats               `json:"stats"`
	Firmwares   map[string]*types.FirmwareRecord `json:"firmwares"`
}

// Catalog collects firmware records keyed by filename. Safe for concurrent
// insertion from scanner workers.
type Catalog struct {
	mu        sync.RWMutex
	firmwares map[string]*types.FirmwareRecord
	stats     types.CatalogStats
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		firmwares: make(map[string]*types.FirmwareRecord),
		stats: types.CatalogStats{
			FilesByType: make(map[string]int),
		},
	}
}

// Store adds a record under its filename, replacing any previous record for
// the same name.
func (c *Catalog) Store(rec *types.FirmwareRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.firmwares[rec.Filename]; ok {
		c.stats.FilesStored--
		if prev.Type != "" {
			c.stats.FilesByType[prev.Type]--
		}
	}

	c.firmwares[rec.Filename] = rec
	c.stats.FilesStored++
	if rec.Type != "" {
		c.stats.FilesByType[rec.Type]++
	}
}

// Get returns the record stored for a filename.
func (c *Catalog) Get(filename string) (*types.FirmwareRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.firmwares[filename]
	return rec, ok
}

// Records returns a copy of the filename-keyed record map.
func (c *Catalog) Records() map[string]*types.FirmwareRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*types.FirmwareRecord, len(c.firmwares))
	for name, rec := range c.firmwares {
		out[name] = rec
	}
	return out
}

// Len returns the number of stored records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.firmwares)
}

// Stats returns a copy of the catalog statistics.
func (c *Catalog) Stats() types.CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.FilesByType = make(map[string]int, len(c.stats.FilesByType))
	for tag, count := range c.stats.FilesByType {
		stats.FilesByType[tag] = count
	}
	return stats
}

// Encode writes the catalog as indented JSON.
func (c *Catalog) Encode(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc := Document{
		GeneratedAt: time.Now(),
		Stats:       c.stats,
		Firmwares:   c.firmwares,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// Save writes the catalog to a JSON file, replacing any existing content.
func (c *Catalog) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return c.Encode(file)
}
