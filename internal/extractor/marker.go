package extractor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/deploymenttheory/go-firmware-index/internal/logger"
	"github.com/deploymenttheory/go-firmware-index/internal/types"
)

// ESP images carry no structured metadata section; the build toolchain
// embeds each field as a literal byte span bracketed by a fixed pair of
// opaque delimiters. One pair per field, fields independent of each other.
var (
	nameMarker = markerPair{
		open:  []byte{0xbf, 0x84, 0xe4, 0x13, 0x54},
		close: []byte{0x93, 0x44, 0x6b, 0xa7, 0x75},
	}
	versionMarker = markerPair{
		open:  []byte{0x6a, 0x3f, 0x3e, 0x0e, 0xe1},
		close: []byte{0xb0, 0x30, 0x48, 0xd4, 0x1a},
	}
	brandMarker = markerPair{
		open:  []byte{0xfb, 0x2a, 0xf5, 0x68, 0xc0},
		close: []byte{0x6e, 0x2f, 0x0f, 0xeb, 0x2d},
	}

	// homieMagic marks images built with the Homie ESP8266 framework.
	homieMagic = []byte("%HOMIE_ESP8266_FW%")
)

type markerPair struct {
	open  []byte
	close []byte
}

// extract returns the decoded span strictly between the opening delimiter
// and the first closing delimiter after it. The empty string means the
// field is absent: a delimiter is missing, the span is empty, or the span
// is not valid UTF-8.
func (m markerPair) extract(data []byte) string {
	start := bytes.Index(data, m.open)
	if start < 0 {
		return ""
	}
	start += len(m.open)

	end := bytes.Index(data[start:], m.close)
	if end <= 0 {
		return ""
	}

	span := data[start : start+end]
	if !utf8.Valid(span) {
		return ""
	}
	return string(span)
}

// MarkerExtractor extracts metadata from native ESP device images (.bin).
type MarkerExtractor struct{}

// Extract searches the raw image for the name/version/brand delimiter pairs
// and reads an optional sidecar <stem>.txt description. The esp8266 type tag
// is set unconditionally: classification is decided by the extension, not by
// marker presence.
func (e *MarkerExtractor) Extract(dir, filename string, rec *types.FirmwareRecord) error {
	logger.Debugf("Scanning ESP compatible firmware %s", filename)
	rec.Type = types.TypeESP8266

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return err
	}

	if name := nameMarker.extract(data); name != "" {
		rec.Name = name
	}
	if version := versionMarker.extract(data); version != "" {
		rec.Version = version
	}
	if brand := brandMarker.extract(data); brand != "" {
		rec.Brand = brand
	}
	if bytes.Contains(data, homieMagic) {
		rec.Homie = true
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	descPath := filepath.Join(dir, stem+".txt")
	if info, err := os.Stat(descPath); err == nil && info.Mode().IsRegular() {
		if desc, err := os.ReadFile(descPath); err == nil {
			rec.Description = string(desc)
		}
	}

	return nil
}
