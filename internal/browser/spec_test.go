package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSpecs_CoverAllBrowsers(t *testing.T) {
	specs := DefaultSpecs()
	for _, b := range All() {
		spec, err := specs.Get(b)
		require.NoError(t, err, "spec for %s", b)
		assert.Equal(t, b, spec.Name)
		assert.NotEmpty(t, spec.Paths)
		assert.NotEmpty(t, spec.FileNames)
	}

	// Relational families declare both canonical table mappings; the ESE
	// family has a fixed layout handled by its extractor.
	for _, b := range []Browser{Chrome, Firefox, Safari} {
		spec := specs[b]
		require.Len(t, spec.Tables, 2, "%s tables", b)
		assert.Equal(t, "urls", spec.Tables[0].Canonical)
		assert.Equal(t, "visits", spec.Tables[1].Canonical)
		for _, table := range spec.Tables {
			assert.NotEmpty(t, table.Columns)
		}
	}
	assert.Empty(t, specs[IE11].Tables)
}

func TestLoad_OverrideReplacesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specs.yaml")
	override := `
Chrome:
  paths:
    linux: ["/opt/chrome-profiles"]
  file_names: ["History"]
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	specs, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/chrome-profiles"}, specs[Chrome].Paths["linux"])
	// Untouched browsers keep their defaults.
	assert.NotEmpty(t, specs[Firefox].Tables)
}

func TestLoad_UnknownBrowserRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Netscape:\n  file_names: [history.dat]\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_EmptyPathUsesDefaults(t *testing.T) {
	specs, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Len(t, specs, len(All()))
}
