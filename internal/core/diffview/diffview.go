// SPDX-License-Identifier: Apache-2.0

// Package diffview renders a line-oriented colored diff between two file
// versions, used for verbose previews of component updates.
package diffview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	redColor   = "\x1b[31m"
	greenColor = "\x1b[32m"
	resetColor = "\x1b[0m"
)

// Render returns a colored line diff from before to after. Unchanged runs
// longer than a few lines are elided.
func Render(before, after string) string {
	dmp := diffmatchpatch.New()

	aChars, bChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(aChars, bChars, false), lineArray)

	var b strings.Builder
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range lines {
				b.WriteString(redColor + "- " + line + resetColor + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range lines {
				b.WriteString(greenColor + "+ " + line + resetColor + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 6 {
				for _, line := range lines[:3] {
					b.WriteString("  " + line + "\n")
				}
				b.WriteString("  ...\n")
				for _, line := range lines[len(lines)-3:] {
					b.WriteString("  " + line + "\n")
				}
				continue
			}
			for _, line := range lines {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	return b.String()
}
