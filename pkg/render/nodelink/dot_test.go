package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/hierarchy"
)

func tree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	data := []accessor.Datum{
		map[string]any{"id": "a", "team": "core"},
		map[string]any{"id": "b", "team": "core"},
		map[string]any{"id": "c", "team": "web"},
	}
	tr, _, err := hierarchy.Build(data, hierarchy.Config{
		Key:    accessor.Field("id"),
		Levels: []hierarchy.Level{{Name: "team", Accessor: accessor.Field("team")}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tr
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(tree(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"core" -> "a";`,
		`"core" -> "b";`,
		`"web" -> "c";`,
		`"a" [label="a"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, `"core" [label="core", style="rounded,filled,dashed"`) {
		t.Errorf("group nodes should be dashed:\n%s", dot)
	}
}

func TestToDOTOptions(t *testing.T) {
	tr := tree(t)
	l, _, err := tr.Layout([]accessor.Datum{map[string]any{"s": "a", "t": "c"}}, hierarchy.LinkConfig{
		Source: accessor.Field("s"),
		Target: accessor.Field("t"),
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	dot := ToDOT(tr, Options{Detailed: true, LeftToRight: true, Links: l.Ribbons})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("expected LR layout")
	}
	if !strings.Contains(dot, `depth: 1`) {
		t.Errorf("detailed labels should include depth:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "c" [style=dotted, constraint=false, dir=none, penwidth=2];`) {
		t.Errorf("missing link edge:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}
