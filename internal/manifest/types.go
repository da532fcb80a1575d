package manifest

// Manifest is the JSON index of one batch run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers     int `json:"workers"`
	ComponentsX int `json:"components_x"`
	ComponentsY int `json:"components_y"`
	MaxSize     int `json:"max_size,omitempty"` // 0 = hashed at full resolution
}

// Asset describes one source image and its BlurHash.
type Asset struct {
	BlurHash    string        `json:"blurhash"`
	Sidecar     string        `json:"sidecar"` // path of the .bh file, same base as the asset key
	ComponentsX int           `json:"components_x"`
	ComponentsY int           `json:"components_y"`
	Width       int           `json:"width,omitempty"` // dimensions actually hashed
	Height      int           `json:"height,omitempty"`
	Original    *OriginalInfo `json:"original,omitempty"`     // absent for sources skipped this run
	AspectRatio float64       `json:"aspect_ratio,omitempty"` // width / height
	Skipped     bool          `json:"skipped,omitempty"`      // sidecar existed; hash read back from it
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
	Size       int64  `json:"size"`
	SourceHash string `json:"source_hash"` // 16 hex chars of xxhash64
}

// Stats aggregates run metrics.
type Stats struct {
	TotalAssets     int   `json:"total_assets"`
	Written         int   `json:"written"`
	Skipped         int   `json:"skipped"`
	Failed          int   `json:"failed,omitempty"`
	TotalInputBytes int64 `json:"total_input_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
