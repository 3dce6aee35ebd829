package caption

import (
	"fmt"
	"strings"
)

// PlainText renders a sequence as one line of text per segment, in order.
func PlainText(seq Sequence) string {
	var sb strings.Builder
	for i, seg := range seq {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// SRT renders a sequence in SubRip format: numbered blocks from 1, each with
// a "start --> end" line (end = start + duration) and the segment text,
// separated by blank lines.
func SRT(seq Sequence) string {
	var sb strings.Builder
	for i, seg := range seq {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		end := seg.OffsetMs + seg.DurationMs
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s", i+1, srtTimestamp(seg.OffsetMs), srtTimestamp(end), seg.Text)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func srtTimestamp(ms int64) string {
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
