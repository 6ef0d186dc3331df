package color

import (
	"strings"
	"testing"
)

func TestColor_Disabled(t *testing.T) {
	c := New(false)
	if c.Enabled() {
		t.Fatal("color should be disabled")
	}
	if got := c.Add("x") + c.Change("y") + c.Destroy("z") + c.Rename("r") + c.Bold("b") + c.Cyan("c"); got != "xyzrbc" {
		t.Errorf("disabled colorizer changed text: %q", got)
	}
	if got := c.Symbol("RENAMED"); got != ">" {
		t.Errorf("Symbol(RENAMED) = %q", got)
	}
	if got := c.Symbol("UNKNOWN"); got != " " {
		t.Errorf("Symbol(UNKNOWN) = %q", got)
	}
}

func TestColor_FormatHeader(t *testing.T) {
	c := New(false)
	want := "Diff: 1 added, 2 modified, 0 renamed, 3 dropped."
	if got := c.FormatHeader(1, 2, 0, 3); got != want {
		t.Errorf("FormatHeader = %q, want %q", got, want)
	}
	if got := c.FormatSummaryLine("Entities", 0, 0, 0, 0); !strings.HasPrefix(got, "  Entities: 0 added") {
		t.Errorf("FormatSummaryLine = %q", got)
	}
}
