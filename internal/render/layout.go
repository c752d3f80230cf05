package render

import (
	"strings"

	"github.com/dshills/linestorm/internal/grapheme"
)

// Frame is the logical content to paint: the prompt, the buffer's logical
// lines, and the cursor position in (line, cluster column) coordinates.
type Frame struct {
	Prompt     string
	Lines      []string
	CursorLine int
	CursorCol  int
}

// layout is the wrapped visual form of a Frame at a given width. Rows hold
// exactly what is painted, one terminal row each; the cursor position is in
// visual (row, display column) coordinates.
type layout struct {
	rows      []string
	cursorRow int
	cursorCol int
}

// computeLayout wraps the frame's logical lines into visual rows. The prompt
// is prepended to the first logical line and wraps with it. Every logical
// line contributes at least one row; a cursor landing exactly on the width
// boundary gets a phantom empty row so its column stays in range.
func computeLayout(f Frame, width int) layout {
	if width < 1 {
		width = 1
	}

	var l layout
	promptClusters := grapheme.Clusters(f.Prompt)

	for li, line := range f.Lines {
		clusters := grapheme.Clusters(line)
		cursorAt := -1
		if li == f.CursorLine {
			cursorAt = f.CursorCol
			if cursorAt > len(clusters) {
				cursorAt = len(clusters)
			}
			if li == 0 {
				cursorAt += len(promptClusters)
			}
		}
		if li == 0 {
			clusters = append(append([]string{}, promptClusters...), clusters...)
		}

		var row strings.Builder
		w := 0
		for i, cl := range clusters {
			cw := grapheme.ClusterWidth(cl)
			if w > 0 && w+cw > width {
				l.rows = append(l.rows, row.String())
				row.Reset()
				w = 0
			}
			if i == cursorAt {
				l.cursorRow = len(l.rows)
				l.cursorCol = w
			}
			row.WriteString(cl)
			w += cw
		}
		if cursorAt == len(clusters) {
			if w >= width {
				l.rows = append(l.rows, row.String())
				row.Reset()
				w = 0
			}
			l.cursorRow = len(l.rows)
			l.cursorCol = w
		}
		l.rows = append(l.rows, row.String())
	}

	if len(l.rows) == 0 {
		l.rows = []string{""}
	}
	return l
}

// firstDiff returns the index of the first differing row, or -1 when both
// slices are equal. Callers ensure equal lengths.
func firstDiff(old, new []string) int {
	for i := range new {
		if old[i] != new[i] {
			return i
		}
	}
	return -1
}

// lastDiff returns the index of the last differing row. Callers ensure a
// difference exists and equal lengths.
func lastDiff(old, new []string) int {
	for i := len(new) - 1; i >= 0; i-- {
		if old[i] != new[i] {
			return i
		}
	}
	return -1
}
