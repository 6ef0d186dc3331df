package color

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
	green   *color.Color
	yellow  *color.Color
	red     *color.Color
	magenta *color.Color
	cyan    *color.Color
	bold    *color.Color
}

// New creates a new Color instance. Color stays off when the caller disables it, when
// NO_COLOR is set, or when stdout is not a terminal.
func New(enabled bool) *Color {
	c := &Color{
		enabled: enabled && !color.NoColor,
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
		magenta: color.New(color.FgMagenta),
		cyan:    color.New(color.FgCyan),
		bold:    color.New(color.Bold),
	}
	for _, attr := range []*color.Color{c.green, c.yellow, c.red, c.magenta, c.cyan, c.bold} {
		if c.enabled {
			attr.EnableColor()
		} else {
			attr.DisableColor()
		}
	}
	return c
}

// Enabled reports whether escape codes are emitted
func (c *Color) Enabled() bool {
	return c.enabled
}

// Add colors a string to indicate additions (green, like Terraform)
func (c *Color) Add(text string) string {
	return c.green.Sprint(text)
}

// Change colors a string to indicate modifications (yellow, like Terraform)
func (c *Color) Change(text string) string {
	return c.yellow.Sprint(text)
}

// Destroy colors a string to indicate deletions (red, like Terraform)
func (c *Color) Destroy(text string) string {
	return c.red.Sprint(text)
}

// Rename colors a string to indicate renames
func (c *Color) Rename(text string) string {
	return c.magenta.Sprint(text)
}

// Warn colors warning text
func (c *Color) Warn(text string) string {
	return c.yellow.Sprint(text)
}

// Bold makes text bold
func (c *Color) Bold(text string) string {
	return c.bold.Sprint(text)
}

// Cyan colors text cyan (for headers and labels)
func (c *Color) Cyan(text string) string {
	return c.cyan.Sprint(text)
}

// Symbol returns the symbol for a change type
func (c *Color) Symbol(changeType string) string {
	switch changeType {
	case "ADDED":
		return c.Add("+")
	case "MODIFIED":
		return c.Change("~")
	case "DROPPED":
		return c.Destroy("-")
	case "RENAMED":
		return c.Rename(">")
	default:
		return " "
	}
}

// FormatSummaryLine formats summary counts with colors
func (c *Color) FormatSummaryLine(objectType string, added, modified, renamed, dropped int) string {
	return fmt.Sprintf("  %s: %s", objectType, c.counts(added, modified, renamed, dropped))
}

// FormatHeader formats the headline of a diff report
func (c *Color) FormatHeader(added, modified, renamed, dropped int) string {
	return fmt.Sprintf("Diff: %s.", c.counts(added, modified, renamed, dropped))
}

func (c *Color) counts(added, modified, renamed, dropped int) string {
	// Always show all categories, even if zero
	parts := []string{
		c.Add(fmt.Sprintf("%d added", added)),
		c.Change(fmt.Sprintf("%d modified", modified)),
		c.Rename(fmt.Sprintf("%d renamed", renamed)),
		c.Destroy(fmt.Sprintf("%d dropped", dropped)),
	}
	return strings.Join(parts, ", ")
}
