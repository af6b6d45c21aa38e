// Package pipeline turns a chart spec and a dataset into rendered
// artifacts.
//
// The CLI and the HTTP server both go through a [Runner], which decodes
// the inputs, drives a chart instance through every dataset frame on a
// deterministic clock, exports the final scene and caches the result:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Spec:    specBytes,
//	    Dataset: dataBytes,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// The same inputs and options always produce the same bytes, which is what
// makes artifact caching by input hash sound.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vizbind/pkg/cache"
	"github.com/matzehuels/vizbind/pkg/dataset"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/spec"
)

const (
	// DefaultFrameInterval is the clock step between rendered frames.
	DefaultFrameInterval = 16 * time.Millisecond

	// MaxFrames bounds the clock steps run after the last dataset frame.
	MaxFrames = 10_000
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatCommands = "commands"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatCommands}

// Options configures one pipeline run.
type Options struct {
	Spec          []byte         `json:"spec"`
	SpecFormat    spec.Format    `json:"spec_format,omitempty"`
	Dataset       []byte         `json:"dataset"`
	DatasetFormat dataset.Format `json:"dataset_format,omitempty"`

	// Width, Height and Duration override the spec when set.
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	Duration *time.Duration `json:"duration,omitempty"`

	// Interval is the clock time between dataset frames. It defaults to
	// the transition duration; a shorter interval supersedes transitions
	// mid-flight.
	Interval time.Duration `json:"interval,omitempty"`

	// Elapsed is the clock time rendered after the last frame. Zero runs
	// every transition to completion.
	Elapsed time.Duration `json:"elapsed,omitempty"`

	FrameInterval time.Duration `json:"frame_interval,omitempty"`

	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result is the output of a pipeline run.
type Result struct {
	Artifacts   map[string][]byte
	InputHash   string
	Diagnostics []errors.Diagnostic
	Stats       Stats
	CacheHit    bool
}

// Stats describes a run.
type Stats struct {
	Frames     int // Dataset frames applied
	Ticks      int // Clock steps run
	Commands   int // Draw commands issued
	Marks      int // Marks in the final scene
	RenderTime time.Duration
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeConfiguration, "invalid format %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset options. It is idempotent.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.SpecFormat == "" {
		o.SpecFormat = spec.FormatTOML
	}
	if o.DatasetFormat == "" {
		o.DatasetFormat = dataset.FormatJSON
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate checks the options after SetDefaults.
func (o *Options) Validate() error {
	if len(o.Spec) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spec is required")
	}
	if len(o.Dataset) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeConfiguration, "size must be non-negative")
	}
	if o.Duration != nil {
		if err := errors.ValidateDuration(*o.Duration); err != nil {
			return err
		}
	}
	if o.Interval < 0 || o.Elapsed < 0 {
		return errors.New(errors.ErrCodeConfiguration, "interval and elapsed must be non-negative")
	}
	return ValidateFormats(o.Formats)
}

// InputHash identifies the inputs of a run.
func (o *Options) InputHash() string {
	return cache.HashInputs(o.Spec, []byte(o.SpecFormat), o.Dataset, []byte(o.DatasetFormat))
}

// ArtifactKeyOpts returns the cache key options of one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	dur := time.Duration(-1)
	if o.Duration != nil {
		dur = *o.Duration
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Background: o.Background,
		Title:      o.Title,
		Duration:   dur,
		Interval:   o.Interval,
		Elapsed:    o.Elapsed,
		Step:       o.FrameInterval,
	}
}
