// Package diff renders line-oriented differences between a desired and an
// observed state description.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 200
	truncateMessage = "... (diff truncated) ..."
)

// Unified returns a unified-style diff from desired to observed. It is empty
// when both are identical. Lines are compared whole.
func Unified(desired, observed, desiredLabel, observedLabel string) string {
	desired = withTrailingNewline(desired)
	observed = withTrailingNewline(observed)
	if desired == observed {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(desired, observed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf strings.Builder
	fmt.Fprintf(&buf, "--- %s\n", desiredLabel)
	fmt.Fprintf(&buf, "+++ %s\n", observedLabel)
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", strings.Count(desired, "\n"), strings.Count(observed, "\n"))

	written := 3
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if written >= maxDiffLines {
				buf.WriteString(truncateMessage + "\n")
				return buf.String()
			}
			buf.WriteString(prefix + line)
			written++
		}
	}

	return buf.String()
}

// Lines joins key/value pairs as "key: value" lines, skipping empty values.
func Lines(pairs ...string) string {
	var buf strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s\n", pairs[i], pairs[i+1])
	}
	return buf.String()
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
