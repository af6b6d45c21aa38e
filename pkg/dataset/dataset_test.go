package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json", FormatJSON, `[{"id": "a", "v": 3}, {"id": "b", "v": 5}]`},
		{"yaml", FormatYAML, "- id: a\n  v: 3\n- id: b\n  v: 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Read(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			require.Len(t, data, 2)

			v, ok := accessor.Number(accessor.Field("v").Eval(data[1], 1, data))
			require.True(t, ok)
			assert.Equal(t, 5.0, v)
			assert.Equal(t, "a", accessor.Text(accessor.Field("id").Eval(data[0], 0, data)))
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"object", FormatJSON, `{"id": "a"}`},
		{"scalar rows", FormatJSON, `[1, 2]`},
		{"malformed", FormatJSON, `[{`},
		{"bad yaml", FormatYAML, "- a: [\n"},
		{"unknown format", "csv", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
		})
	}
}

func TestReadFrames(t *testing.T) {
	single, err := ReadFrames(strings.NewReader(`[{"id": "a"}]`), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, single, 1)

	nested, err := ReadFrames(strings.NewReader(`[[{"id": "a"}], [{"id": "a"}, {"id": "b"}]]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, nested, 2)
	assert.Len(t, nested[1], 2)

	wrapped, err := ReadFrames(strings.NewReader("frames:\n  - [{id: a}]\n  - []\n"), FormatYAML)
	require.NoError(t, err)
	require.Len(t, wrapped, 2)
	assert.Empty(t, wrapped[1])

	_, err = ReadFrames(strings.NewReader(`{"data": []}`), FormatJSON)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.yml")
	require.NoError(t, os.WriteFile(path, []byte("- {id: a, x: 1}\n"), 0o644))

	data, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, data, 1)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.YAML"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatJSON, FormatOf("a"))
}

func TestRecords(t *testing.T) {
	data := Records(map[string]any{"id": "a"}, map[string]any{"id": "b"})
	assert.Len(t, data, 2)
}
