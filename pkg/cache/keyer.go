package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// AnalysisKey identifies the frequency analysis of a text.
	AnalysisKey(textHash string, opts AnalysisKeyOpts) string

	// LayoutKey identifies a layout computed from a frequency table.
	LayoutKey(tableHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// AnalysisKeyOpts holds the options that change the analysis result.
type AnalysisKeyOpts struct {
	Stopwords []string `json:"stopwords,omitempty"`
	NoDefault bool     `json:"no_default,omitempty"`
}

// LayoutKeyOpts holds the options that change the layout result.
type LayoutKeyOpts struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Palette          string  `json:"palette"`
	MaxWords         int     `json:"max_words"`
	MinFontSize      float64 `json:"min_font_size"`
	MaxFontSize      float64 `json:"max_font_size"`
	Scaling          string  `json:"scaling"`
	PreferHorizontal float64 `json:"prefer_horizontal"`
	Margin           float64 `json:"margin"`
	Seed             uint64  `json:"seed"`
	Tries            int     `json:"tries"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Background string  `json:"background,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes stage inputs into stable, prefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// AnalysisKey returns "analysis:<sha256>".
func (k *DefaultKeyer) AnalysisKey(textHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", textHash, opts)
}

// LayoutKey returns "layout:<sha256>".
func (k *DefaultKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", tableHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
