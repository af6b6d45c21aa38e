package buildinfo

import (
	"strings"
	"testing"
)

func TestShortAbbreviatesCommit(t *testing.T) {
	resolve()
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "v1.2.3", "0123456789abcdef"
	if got, want := Short(), "v1.2.3 (0123456)"; got != want {
		t.Errorf("Short() = %q, want %q", got, want)
	}
	Commit = "abc"
	if got, want := Short(), "v1.2.3 (abc)"; got != want {
		t.Errorf("Short() = %q, want %q", got, want)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version ") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q", String())
	}
}
