package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vizbind/pkg/dataset"
	"github.com/matzehuels/vizbind/pkg/spec"
)

const testSpec = `
title = "Points"
key = "id"
duration = "100ms"
width = 100
height = 100

[x]
domain = [0, 10]

[y]
domain = [0, 10]

[[component]]
type = "scatter"
x = "x"
y = "y"
`

const testChordSpec = `
key = "id"

[[component]]
type = "chord"
id = "teams"
links = [{source = "a", target = "c"}]

[component.hierarchy]
key = "id"
value = "size"
levels = ["team"]
`

// writeInputs writes a spec and two single-frame datasets to dir.
func writeInputs(t *testing.T, dir, specBody string) (specPath, first, second string) {
	t.Helper()
	specPath = filepath.Join(dir, "chart.toml")
	first = filepath.Join(dir, "day1.json")
	second = filepath.Join(dir, "day2.yaml")
	files := map[string]string{
		specPath: specBody,
		first:    `[{"id": "a", "x": 1, "y": 1, "team": "g", "size": 1}, {"id": "b", "x": 2, "y": 2, "team": "g", "size": 2}]`,
		second:   "- {id: b, x: 3, y: 3, team: g, size: 2}\n- {id: c, x: 4, y: 4, team: h, size: 3}\n- {id: a, x: 1, y: 1, team: g, size: 1}\n",
	}
	for p, body := range files {
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return specPath, first, second
}

func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return New(io.Discard, log.InfoLevel)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"json", []string{"json"}},
		{"svg,json", []string{"svg", "json"}},
		{" svg , commands ,", []string{"svg", "commands"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	if got := extension("svg"); got != "svg" {
		t.Errorf("extension(svg) = %q", got)
	}
	if got := extension("commands"); got != "commands.json" {
		t.Errorf("extension(commands) = %q", got)
	}
}

func TestInputFlagsOptions(t *testing.T) {
	dir := t.TempDir()
	specPath, first, second := writeInputs(t, dir, testSpec)

	f := inputFlags{frames: []string{second}, width: 300, duration: 2 * time.Second}
	opts, err := f.options(specPath, []string{first})
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}
	if opts.SpecFormat != spec.FormatTOML {
		t.Errorf("SpecFormat = %q", opts.SpecFormat)
	}
	if opts.Width != 300 || opts.Height != 0 {
		t.Errorf("size = %vx%v, want 300x0", opts.Width, opts.Height)
	}
	if opts.Duration == nil || *opts.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", opts.Duration)
	}

	frames, err := dataset.ReadFrames(bytes.NewReader(opts.Dataset), opts.DatasetFormat)
	if err != nil {
		t.Fatalf("ReadFrames() error: %v", err)
	}
	if len(frames) != 2 || len(frames[0]) != 2 || len(frames[1]) != 3 {
		t.Errorf("frames = %v", frames)
	}

	f = inputFlags{duration: -1}
	opts, err = f.options(specPath, []string{first})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Duration != nil {
		t.Errorf("negative duration flag should leave the spec duration, got %v", *opts.Duration)
	}

	if _, err := f.options(filepath.Join(dir, "missing.toml"), []string{first}); err == nil {
		t.Error("missing spec should fail")
	}
	if _, err := f.options(specPath, nil); err == nil {
		t.Error("no datasets should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	specPath, first, second := writeInputs(t, dir, testSpec)
	out := filepath.Join(dir, "out")

	root := c.RootCommand()
	root.SetArgs([]string{"render", specPath, first, "--frames", second, "-f", "svg,json", "-o", out})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render error: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(svg), "<circle"); got != 3 {
		t.Errorf("svg has %d circles, want 3", got)
	}

	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var scene struct {
		Title string `json:"title"`
		Marks []any  `json:"marks"`
	}
	if err := json.Unmarshal(data, &scene); err != nil {
		t.Fatal(err)
	}
	if scene.Title != "Points" || len(scene.Marks) != 3 {
		t.Errorf("scene = %+v", scene)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	c := testCLI(t)
	specPath, first, _ := writeInputs(t, t.TempDir(), testSpec)
	root := c.RootCommand()
	root.SetArgs([]string{"render", specPath, first, "-f", "png"})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("png should be rejected")
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "chart.svg")
	paths, err := writeArtifacts(map[string][]byte{"svg": []byte("<svg/>")}, []string{"svg"}, out, "spec.toml")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}

	_, err = writeArtifacts(map[string][]byte{}, []string{"svg", "json"}, "-", "spec.toml")
	if err == nil {
		t.Error("stdout with two formats should fail")
	}
}

func TestLayoutAndTreeCommands(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	specPath, first, second := writeInputs(t, dir, testChordSpec)

	layoutOut := filepath.Join(dir, "layout.json")
	root := c.RootCommand()
	root.SetArgs([]string{"layout", specPath, first, second, "-o", layoutOut})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	var dump struct {
		Component string `json:"component"`
		Layout    struct {
			Nodes   []any `json:"nodes"`
			Ribbons []any `json:"ribbons"`
		} `json:"layout"`
	}
	data, err := os.ReadFile(layoutOut)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatal(err)
	}
	if dump.Component != "teams" || len(dump.Layout.Nodes) != 5 || len(dump.Layout.Ribbons) != 1 {
		t.Errorf("layout = %s", data)
	}

	dotOut := filepath.Join(dir, "tree.dot")
	root = c.RootCommand()
	root.SetArgs([]string{"tree", specPath, first, second, "--lr", "-o", dotOut})
	if err := root.Execute(); err != nil {
		t.Fatalf("tree error: %v", err)
	}
	dot, err := os.ReadFile(dotOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "rankdir=LR") {
		t.Errorf("dot = %s", dot)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"tree", specPath, first, "-f", "png"})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("png tree format should be rejected")
	}
}
