package types

// Firmware type tags, set by the extractor that recognized the file.
const (
	TypeESP8266    = "esp8266"    // native device image (.bin)
	TypePython     = "python"     // bundle with a main.py entry script
	TypeJavaScript = "javascript" // bundle with a package.json manifest
)

// FirmwareRecord holds the metadata extracted for a single firmware file.
// Optional fields stay empty when the corresponding source (marker, sidecar
// file, bundle member) is absent or undecodable.
type FirmwareRecord struct {
	Filename        string `json:"filename"`
	Name            string `json:"name,omitempty"`
	Version         string `json:"version,omitempty"`
	FilenameVersion string `json:"filename_version,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Description     string `json:"description,omitempty"`
	Type            string `json:"type,omitempty"`
	Homie           bool   `json:"homie,omitempty"`
	HumanSize       string `json:"human_size,omitempty"`
	Checksum        string `json:"checksum,omitempty"`
	SHA3Hash        string `json:"sha3_256,omitempty"`

	// Error carries a per-file I/O failure (stat or digest) so one broken
	// file never aborts the rest of the scan.
	Error string `json:"error,omitempty"`
}

// CatalogStats holds catalog statistics
type CatalogStats struct {
	FilesStored int            `json:"files_stored"`
	FilesByType map[string]int `json:"files_by_type"`
}
