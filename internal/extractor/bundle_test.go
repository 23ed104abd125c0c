package extractor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-firmware-index/internal/types"
)

// writeBundle creates a zip file with the given members.
func writeBundle(t *testing.T, dir, name string, members map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for member, content := range members {
		f, err := w.Create(member)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0600))
}

func extractBundle(t *testing.T, dir, name string) *types.FirmwareRecord {
	t.Helper()
	rec := &types.FirmwareRecord{Filename: name}
	require.NoError(t, (&BundleExtractor{}).Extract(dir, name, rec))
	return rec
}

func TestBundleExtract_EntryScript(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "tool-2.0.0.zip", map[string]string{
		"main.py": "\"\"\"CLI helper\"\"\"\n__version__ = \"2.0.1\"\n\nprint(\"hi\")\n",
	})

	rec := extractBundle(t, dir, "tool-2.0.0.zip")

	assert.Equal(t, "2.0.1", rec.Version)
	assert.Equal(t, "CLI helper", rec.Description)
	assert.Equal(t, types.TypePython, rec.Type)
}

func TestBundleExtract_EntryScriptSingleQuotes(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "tool-2.0.0.zip", map[string]string{
		"main.py": "__version__ = '2.0.1'\n",
	})

	rec := extractBundle(t, dir, "tool-2.0.0.zip")

	assert.Equal(t, "2.0.1", rec.Version)
	assert.Empty(t, rec.Description)
	assert.Equal(t, types.TypePython, rec.Type)
}

func TestBundleExtract_EntryScriptWithoutPatterns(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "tool-2.0.0.zip", map[string]string{
		"main.py": "print(\"no metadata here\")\n",
	})

	rec := extractBundle(t, dir, "tool-2.0.0.zip")

	// Member presence alone decides the classification.
	assert.Equal(t, types.TypePython, rec.Type)
	assert.Empty(t, rec.Version)
	assert.Empty(t, rec.Description)
}

func TestBundleExtract_Manifest(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-3.0.0.zip", map[string]string{
		"package.json": `{"name":"app","version":"3.0.0","description":"pkg"}`,
	})

	rec := extractBundle(t, dir, "app-3.0.0.zip")

	assert.Equal(t, "3.0.0", rec.Version)
	assert.Equal(t, "pkg", rec.Description)
	assert.Equal(t, types.TypeJavaScript, rec.Type)
}

func TestBundleExtract_ManifestOverridesEntryScript(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-2.0.0.zip", map[string]string{
		"main.py":      "\"\"\"script desc\"\"\"\n__version__ = \"2.0.1\"\n",
		"package.json": `{"version":"3.0.0","description":"pkg"}`,
	})

	rec := extractBundle(t, dir, "app-2.0.0.zip")

	// The manifest probe runs last and wins.
	assert.Equal(t, "3.0.0", rec.Version)
	assert.Equal(t, "pkg", rec.Description)
	assert.Equal(t, types.TypeJavaScript, rec.Type)
}

func TestBundleExtract_ManifestMissingFieldKeepsScriptValue(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-2.0.0.zip", map[string]string{
		"main.py":      "\"\"\"script desc\"\"\"\n__version__ = \"2.0.1\"\n",
		"package.json": `{"description":"pkg"}`,
	})

	rec := extractBundle(t, dir, "app-2.0.0.zip")

	// The manifest has no version, so the entry script's version survives;
	// an incomplete manifest does not reclassify the bundle.
	assert.Equal(t, "2.0.1", rec.Version)
	assert.Equal(t, "pkg", rec.Description)
	assert.Equal(t, types.TypePython, rec.Type)
}

func TestBundleExtract_NullManifestLeavesScriptFields(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-2.0.0.zip", map[string]string{
		"main.py":      "\"\"\"script desc\"\"\"\n__version__ = \"2.0.1\"\n",
		"package.json": "null",
	})

	rec := extractBundle(t, dir, "app-2.0.0.zip")

	assert.Equal(t, "2.0.1", rec.Version)
	assert.Equal(t, "script desc", rec.Description)
	assert.Equal(t, types.TypePython, rec.Type)
}

func TestBundleExtract_NonStringManifestFieldSkipped(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-2.0.0.zip", map[string]string{
		"main.py":      "__version__ = \"2.0.1\"\n",
		"package.json": `{"version":3,"description":"pkg"}`,
	})

	rec := extractBundle(t, dir, "app-2.0.0.zip")

	assert.Equal(t, "2.0.1", rec.Version)
	assert.Equal(t, "pkg", rec.Description)
	assert.Equal(t, types.TypePython, rec.Type)
}

func TestBundleExtract_ManifestVersionOnly(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-3.0.0.zip", map[string]string{
		"package.json": `{"version":"3.0.0"}`,
	})

	rec := extractBundle(t, dir, "app-3.0.0.zip")

	// A lone version is still applied, but classification needs both fields.
	assert.Equal(t, "3.0.0", rec.Version)
	assert.Empty(t, rec.Description)
	assert.Empty(t, rec.Type)
}

func TestBundleExtract_MalformedManifestSkipped(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "app-2.0.0.zip", map[string]string{
		"main.py":      "__version__ = \"2.0.1\"\n",
		"package.json": "{not json",
	})

	rec := extractBundle(t, dir, "app-2.0.0.zip")

	// The broken manifest is skipped; entry script results stand.
	assert.Equal(t, "2.0.1", rec.Version)
	assert.Equal(t, types.TypePython, rec.Type)
}

func TestBundleExtract_InvalidZip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake-1.0.0.zip"), []byte("not a zip archive"), 0600))

	rec := extractBundle(t, dir, "fake-1.0.0.zip")

	assert.Empty(t, rec.Type)
	assert.Empty(t, rec.Version)
	assert.Empty(t, rec.Description)
}

func TestBundleExtract_NoKnownMembers(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "misc-1.0.0.zip", map[string]string{
		"readme.txt": "nothing to see",
	})

	rec := extractBundle(t, dir, "misc-1.0.0.zip")

	assert.Empty(t, rec.Type)
	assert.Empty(t, rec.Version)
}
