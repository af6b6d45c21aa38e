// Package dataset reads chart datasets from JSON and YAML files.
//
// A dataset is an array of objects. Each object becomes one datum, a
// map[string]any, that field accessors can read:
//
//	[
//	  {"id": "a", "x": 1, "y": 3},
//	  {"id": "b", "x": 2, "y": 5}
//	]
//
// An animation is a sequence of datasets. [ReadFrames] accepts a single
// dataset, an array of datasets, or an object with a "frames" array.
package dataset

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

// Format is a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf infers the format from a file extension. Unknown extensions are
// read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Records converts rows to datums.
func Records(rows ...map[string]any) []accessor.Datum {
	out := make([]accessor.Datum, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// Read decodes a single dataset from r.
func Read(r io.Reader, format Format) ([]accessor.Datum, error) {
	v, err := decode(r, format)
	if err != nil {
		return nil, err
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "dataset must be an array of objects")
	}
	return records(rows)
}

// ReadFrames decodes a sequence of datasets from r.
func ReadFrames(r io.Reader, format Format) ([][]accessor.Datum, error) {
	v, err := decode(r, format)
	if err != nil {
		return nil, err
	}
	if obj, ok := v.(map[string]any); ok {
		v, ok = obj["frames"]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, `frames object has no "frames" array`)
		}
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "frames must be an array")
	}
	if len(rows) == 0 {
		return [][]accessor.Datum{{}}, nil
	}
	if _, nested := rows[0].([]any); !nested {
		data, err := records(rows)
		if err != nil {
			return nil, err
		}
		return [][]accessor.Datum{data}, nil
	}

	frames := make([][]accessor.Datum, len(rows))
	for i, f := range rows {
		fr, ok := f.([]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "frame %d is not an array", i)
		}
		if frames[i], err = records(fr); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "frame %d", i)
		}
	}
	return frames, nil
}

// Load reads the dataset at path.
func Load(path string) ([]accessor.Datum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, FormatOf(path))
}

// LoadFrames reads the frames at path.
func LoadFrames(path string) ([][]accessor.Datum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadFrames(f, FormatOf(path))
}

func decode(r io.Reader, format Format) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dataset")
	}
	var v any
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &v)
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(raw))
		err = dec.Decode(&v)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return v, nil
}

func records(rows []any) ([]accessor.Datum, error) {
	out := make([]accessor.Datum, len(rows))
	for i, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "row %d is not an object", i)
		}
		out[i] = m
	}
	return out, nil
}
