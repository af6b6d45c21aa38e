package cache

import "time"

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string        `json:"format"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Background string        `json:"background,omitempty"`
	Title      string        `json:"title,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"` // -1 when the spec's duration applies
	Interval   time.Duration `json:"interval,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"` // Clock time after the last update
	Step       time.Duration `json:"step,omitempty"`
}

// LayoutKeyOpts identify a hierarchy layout dump.
type LayoutKeyOpts struct {
	Component string  `json:"component"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Keyer derives cache keys from an input hash, see HashInputs.
type Keyer interface {
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces "artifact:<hash>" and "layout:<hash>" keys.
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}
