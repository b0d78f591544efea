package cache

// AnalysisKeyOpts are the options that change an analysis result.
type AnalysisKeyOpts struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Padding      float64 `json:"padding"`
	MinSpacing   float64 `json:"min_spacing"`
	MaxSpacing   float64 `json:"max_spacing"`
	Implications bool    `json:"implications"`
	Minimize     bool    `json:"minimize"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DatasetKey returns the key of a dataset by content hash.
	DatasetKey(datasetHash string) string
	// AnalysisKey returns the key of an analysis of a dataset.
	AnalysisKey(datasetHash string, opts AnalysisKeyOpts) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DatasetKey returns "dataset:<hash>".
func (DefaultKeyer) DatasetKey(datasetHash string) string {
	return "dataset:" + datasetHash
}

// AnalysisKey hashes the dataset hash together with the options.
func (DefaultKeyer) AnalysisKey(datasetHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", datasetHash, opts)
}
