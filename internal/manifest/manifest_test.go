package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, ComponentsX: 4, ComponentsY: 3}
	m.Assets["photos/beach.jpg"] = Asset{
		BlurHash:    "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
		Sidecar:     "photos/beach.jpg.bh",
		ComponentsX: 4,
		ComponentsY: 3,
		Width:       800,
		Height:      600,
		Original: &OriginalInfo{
			Width: 800, Height: 600,
			Format: "jpeg", Size: 100000, SourceHash: "0123456789abcdef",
		},
		AspectRatio: 1.3333,
	}
	m.Assets["photos/old.png"] = Asset{
		BlurHash:    "00TI:j",
		Sidecar:     "photos/old.png.bh",
		ComponentsX: 1,
		ComponentsY: 1,
		Skipped:     true,
	}
	m.Stats.Failed = 2

	path := filepath.Join(t.TempDir(), "blurhash.manifest.json")
	require.NoError(t, WriteJSON(m, path))

	m2, err := ReadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, SupportedManifestVersion, m2.Version)
	assert.Equal(t, "test-profile", m2.Profile)
	require.NotNil(t, m2.BuildInfo)
	assert.Equal(t, 4, m2.BuildInfo.Workers)

	a, ok := m2.Assets["photos/beach.jpg"]
	require.True(t, ok)
	assert.Equal(t, "LEHV6nWB2yk8pyo0adR*.7kCMdnj", a.BlurHash)
	require.NotNil(t, a.Original)
	assert.Equal(t, "0123456789abcdef", a.Original.SourceHash)

	old := m2.Assets["photos/old.png"]
	assert.True(t, old.Skipped)
	assert.Nil(t, old.Original)

	assert.Equal(t, Stats{TotalAssets: 2, Written: 1, Skipped: 1, Failed: 2, TotalInputBytes: 100000}, m2.Stats)
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	assert.Equal(t, SupportedManifestVersion, m.Version)
	assert.NotEmpty(t, m.GeneratedAt)
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "components_x": 4, "components_y": 3, "new_flag": true },
		"assets": {},
		"stats": { "total_assets": 0, "written": 0, "skipped": 0, "total_input_bytes": 0, "new_stat": 42 }
	}`
	path := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	m, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Version)
	require.NotNil(t, m.BuildInfo)
	assert.Equal(t, 8, m.BuildInfo.Workers)
}

func TestReadJSON_Errors(t *testing.T) {
	_, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = ReadJSON(path)
	assert.ErrorContains(t, err, "parse manifest")
}
