package spec

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/scale"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Format is a spec encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf infers the format from a file extension, defaulting to TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Chart is a decoded chart spec.
type Chart struct {
	Title    string  `toml:"title" yaml:"title"`
	Key      string  `toml:"key" yaml:"key"`
	Duration string  `toml:"duration" yaml:"duration"`
	Ease     string  `toml:"ease" yaml:"ease"`
	Width    float64 `toml:"width" yaml:"width"`
	Height   float64 `toml:"height" yaml:"height"`
	Margin   *Margin `toml:"margin" yaml:"margin"`

	X Scale `toml:"x" yaml:"x"`
	Y Scale `toml:"y" yaml:"y"`

	Enter map[string]any `toml:"enter" yaml:"enter"`
	Exit  map[string]any `toml:"exit" yaml:"exit"`

	Components []Component `toml:"component" yaml:"components"`
}

type Margin struct {
	Top    float64 `toml:"top" yaml:"top"`
	Right  float64 `toml:"right" yaml:"right"`
	Bottom float64 `toml:"bottom" yaml:"bottom"`
	Left   float64 `toml:"left" yaml:"left"`
}

// Scale overrides the inferred scale of one XY channel.
type Scale struct {
	Type         string  `toml:"type" yaml:"type"`
	Domain       []any   `toml:"domain" yaml:"domain"`
	Nice         bool    `toml:"nice" yaml:"nice"`
	Clamp        bool    `toml:"clamp" yaml:"clamp"`
	PaddingInner float64 `toml:"padding_inner" yaml:"padding_inner"`
	PaddingOuter float64 `toml:"padding_outer" yaml:"padding_outer"`
}

// Decode parses a spec.
func Decode(data []byte, format Format) (*Chart, error) {
	var c Chart
	switch format {
	case FormatTOML, "":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml spec")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml spec")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown spec format %q", format)
	}
	return &c, nil
}

// Load reads and decodes the spec at path. Relative link files are
// resolved against the spec's directory.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read spec %s", path)
	}
	c, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range c.Components {
		if f := c.Components[i].LinksFile; f != "" && !filepath.IsAbs(f) {
			c.Components[i].LinksFile = filepath.Join(dir, f)
		}
	}
	return c, nil
}

// Config builds the chart configuration. It fails with a configuration
// error on unknown component types, scale types or malformed durations.
func (c *Chart) Config() (chart.Config, error) {
	cfg := chart.Config{
		Width:  c.Width,
		Height: c.Height,
		Enter:  transition.Attrs(c.Enter),
		Exit:   transition.Attrs(c.Exit),
	}
	if c.Key != "" {
		cfg.Key = Channel(c.Key)
	}
	if c.Duration != "" {
		d, err := time.ParseDuration(c.Duration)
		if err != nil {
			return chart.Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "duration")
		}
		cfg.Duration = d
	}
	if c.Margin != nil {
		cfg.Margin = &chart.Margin{Top: c.Margin.Top, Right: c.Margin.Right, Bottom: c.Margin.Bottom, Left: c.Margin.Left}
	}

	var err error
	if cfg.X, err = c.X.options(); err != nil {
		return chart.Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "x scale")
	}
	if cfg.Y, err = c.Y.options(); err != nil {
		return chart.Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "y scale")
	}

	for i, sc := range c.Components {
		comp, err := sc.Build()
		if err != nil {
			return chart.Config{}, errors.Wrap(errors.GetCode(err), err, "component %d (%s)", i, sc.Type)
		}
		cfg.Components = append(cfg.Components, comp)
	}
	return cfg, nil
}

// EaseFunc returns the configured easing.
func (c *Chart) EaseFunc() (transition.Ease, error) {
	e, err := transition.ParseEase(c.Ease)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "ease")
	}
	return e, nil
}

func (s Scale) options() (chart.ScaleOptions, error) {
	o := chart.ScaleOptions{
		Domain:       s.Domain,
		Nice:         s.Nice,
		Clamp:        s.Clamp,
		PaddingInner: s.PaddingInner,
		PaddingOuter: s.PaddingOuter,
	}
	if s.Type != "" {
		t, err := scale.ParseType(s.Type)
		if err != nil {
			return o, err
		}
		o.Type = t
	}
	return o, nil
}

// Channel converts a spec value to an accessor. Strings name a datum
// field, "$index" the datum position and "=text" a constant string. Other
// values are constants.
func Channel(v any) accessor.Accessor {
	s, ok := v.(string)
	switch {
	case v == nil:
		return accessor.Accessor{}
	case !ok:
		return accessor.Constant(v)
	case s == "$index":
		return accessor.Index()
	case strings.HasPrefix(s, "="):
		return accessor.Constant(s[1:])
	default:
		return accessor.Field(s)
	}
}

// Channels converts a single value or a list to a series.
func Channels(v any) accessor.Series {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make(accessor.Series, len(x))
		for i, e := range x {
			out[i] = Channel(e)
		}
		return out
	case []string:
		out := make(accessor.Series, len(x))
		for i, e := range x {
			out[i] = Channel(e)
		}
		return out
	default:
		return accessor.SeriesOf(Channel(v))
	}
}
