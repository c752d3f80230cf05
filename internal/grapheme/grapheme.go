// Package grapheme provides grapheme-cluster segmentation, display-width
// measurement, and word-boundary classification for line editing.
//
// The engine distinguishes three units of text measurement:
//
//   - Bytes: the storage unit of Go strings.
//   - Grapheme clusters: the unit users perceive as one character. A cluster
//     may span several code points (combining marks, emoji ZWJ sequences).
//     All cursor positions count clusters.
//   - Display columns: the terminal cells a cluster occupies (0, 1 or 2).
//
// Word boundaries follow a two-run rule: a word motion first crosses any
// contiguous whitespace, then a contiguous run of non-whitespace, in the
// direction of travel. The classification is deliberately simple so the
// segmentation can be upgraded without touching cursor or render logic.
package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Count returns the number of grapheme clusters in s.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// ClusterWidth returns the display width of a single cluster.
func ClusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	return runewidth.StringWidth(cluster)
}

// Clusters splits s into its grapheme clusters.
func Clusters(s string) []string {
	if s == "" {
		return nil
	}
	clusters := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		clusters = append(clusters, cluster)
		s = rest
		state = newState
	}
	return clusters
}

// ByteOffset converts a cluster index to a byte offset in s.
// Indexes past the end map to len(s); negative indexes map to 0.
func ByteOffset(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	n := 0
	state := -1
	orig := s
	for len(s) > 0 {
		_, rest, _, newState := uniseg.StepString(s, state)
		n++
		if n == idx {
			return len(orig) - len(rest)
		}
		s = rest
		state = newState
	}
	return len(orig)
}

// At returns the cluster at the given index, or "" when out of range.
func At(s string, idx int) string {
	if idx < 0 {
		return ""
	}
	n := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		if n == idx {
			return cluster
		}
		n++
		s = rest
		state = newState
	}
	return ""
}

// Slice returns the substring covering cluster indexes [start, end).
// Out-of-range bounds are clamped.
func Slice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}
	lo := ByteOffset(s, start)
	hi := ByteOffset(s, end)
	return s[lo:hi]
}

// Insert inserts text at the given cluster index and returns the result.
func Insert(s string, idx int, text string) string {
	off := ByteOffset(s, idx)
	return s[:off] + text + s[off:]
}

// DeleteRange removes clusters in [start, end) and returns the result.
func DeleteRange(s string, start, end int) string {
	lo := ByteOffset(s, start)
	hi := ByteOffset(s, end)
	return s[:lo] + s[hi:]
}

// IsWhitespace reports whether a cluster is whitespace. Classification is by
// the cluster's base (first) rune, so a combining sequence over a letter is
// never whitespace.
func IsWhitespace(cluster string) bool {
	if cluster == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return unicode.IsSpace(r)
}

// PrevWordBoundary returns the cluster index of the previous word boundary in
// line, starting from col: it skips whitespace leftward, then the adjacent
// non-whitespace run, landing at the start of that word.
func PrevWordBoundary(line string, col int) int {
	clusters := Clusters(line)
	if col > len(clusters) {
		col = len(clusters)
	}
	i := col
	for i > 0 && IsWhitespace(clusters[i-1]) {
		i--
	}
	for i > 0 && !IsWhitespace(clusters[i-1]) {
		i--
	}
	return i
}

// NextWordBoundary returns the cluster index of the next word boundary in
// line, starting from col: it skips whitespace rightward, then the adjacent
// non-whitespace run, landing just past the end of that word.
func NextWordBoundary(line string, col int) int {
	clusters := Clusters(line)
	if col < 0 {
		col = 0
	}
	i := col
	for i < len(clusters) && IsWhitespace(clusters[i]) {
		i++
	}
	for i < len(clusters) && !IsWhitespace(clusters[i]) {
		i++
	}
	return i
}

// TruncateToWidth returns the longest prefix of s whose display width does
// not exceed maxWidth, never splitting a cluster.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	var b strings.Builder
	w := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		cw := runewidth.StringWidth(cluster)
		if w+cw > maxWidth {
			break
		}
		b.WriteString(cluster)
		w += cw
		s = rest
		state = newState
	}
	return b.String()
}
