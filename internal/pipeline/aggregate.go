package pipeline

import (
	"sort"
	"strings"
)

// Fragment is the recognized text of one chunk
type Fragment struct {
	Index int
	Text  string
}

// Aggregate joins fragments in chunk index order with a newline.
// Missing indices are skipped; an empty slice yields "".
func Aggregate(fragments []Fragment) string {
	if len(fragments) == 0 {
		return ""
	}

	ordered := make([]Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	texts := make([]string, len(ordered))
	for i, f := range ordered {
		texts[i] = f.Text
	}
	return strings.Join(texts, "\n")
}
