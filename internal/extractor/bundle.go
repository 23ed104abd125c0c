package extractor

import (
	"encoding/json"
	"io"
	"path/filepath"
	"regexp"

	"github.com/klauspost/compress/zip"

	"github.com/deploymenttheory/go-firmware-index/internal/logger"
	"github.com/deploymenttheory/go-firmware-index/internal/types"
)

// Well-known bundle members probed for metadata.
const (
	entryScriptName = "main.py"
	manifestName    = "package.json"
)

var (
	pythonVersionRegex = regexp.MustCompile(`(?m)^__version__ = ['"]([^'"]*)['"]`)
	pythonDescRegex    = regexp.MustCompile(`(?m)^"""([^"]*)"""`)
)

// manifestString looks up a manifest field and decodes it as a string.
// Absent or non-string fields report ok=false and are left off the record.
func manifestString(manifest map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := manifest[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// BundleExtractor extracts metadata from desktop companion bundles (.zip).
type BundleExtractor struct{}

// Extract probes the archive for a main.py entry script and a package.json
// manifest. Both probes always run; the manifest runs last and its present
// fields overwrite whatever the entry script provided, so a bundle carrying
// both members with a complete manifest ends up classified as javascript
// with manifest-sourced fields. An invalid zip container is logged and
// leaves the record untouched.
func (e *BundleExtractor) Extract(dir, filename string, rec *types.FirmwareRecord) error {
	logger.Debugf("Scanning bundle compatible firmware %s", filename)

	bundle, err := zip.OpenReader(filepath.Join(dir, filename))
	if err != nil {
		logger.Errorf("Invalid bundle zip file %s, skipping: %v", filename, err)
		return nil
	}
	defer bundle.Close()

	if script, ok := readMember(&bundle.Reader, entryScriptName); ok {
		if m := pythonVersionRegex.FindSubmatch(script); m != nil {
			rec.Version = string(m[1])
		}
		if m := pythonDescRegex.FindSubmatch(script); m != nil {
			rec.Description = string(m[1])
		}
		rec.Type = types.TypePython
	}

	if raw, ok := readMember(&bundle.Reader, manifestName); ok {
		var manifest map[string]json.RawMessage
		if err := json.Unmarshal(raw, &manifest); err != nil {
			logger.Debugf("Malformed manifest in %s: %v", filename, err)
		} else {
			// Only fields actually present overwrite entry script values;
			// an absent field leaves the earlier value standing. The
			// javascript tag requires a manifest carrying both fields.
			description, descOK := manifestString(manifest, "description")
			version, versionOK := manifestString(manifest, "version")
			if descOK {
				rec.Description = description
			}
			if versionOK {
				rec.Version = version
			}
			if descOK && versionOK {
				rec.Type = types.TypeJavaScript
			}
		}
	}

	return nil
}

// readMember reads a named archive member in full. Missing or unreadable
// members report ok=false; the caller skips that probe and continues.
func readMember(r *zip.Reader, name string) ([]byte, bool) {
	member, err := r.Open(name)
	if err != nil {
		return nil, false
	}
	defer member.Close()

	data, err := io.ReadAll(member)
	if err != nil {
		return nil, false
	}
	return data, true
}
