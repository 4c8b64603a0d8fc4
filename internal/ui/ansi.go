package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Out and Err receive all CLI output.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var symCross = "✖"

// SetColorMode takes auto, always or never. Auto leaves fatih/color's
// terminal detection in charge.
func SetColorMode(mode string) {
	switch strings.ToLower(mode) {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

// C paints s unless color output is off.
func C(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func OK(msg string)   { fmt.Fprintln(Out, C(current.Success, current.SymDone+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, C(current.Error, symCross+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func Hint(msg string) { fmt.Fprintln(Err, C(current.Muted, "Hint: "+msg)) }
