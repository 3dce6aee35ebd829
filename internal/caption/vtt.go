package caption

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoCues is reported by the parsers when a payload yields zero usable
// cues. An empty parse is always a failed attempt, never an empty success.
var ErrNoCues = errors.New("no usable cues in payload")

// timingLineRe matches a WebVTT cue timing line such as
// "00:00:01.000 --> 00:00:02.500" or "01:02.500 --> 01:05.000", with
// optional cue settings after the end timestamp.
var timingLineRe = regexp.MustCompile(`^(\d{1,2}(?::\d{2}){1,2}\.\d{3})\s*-->\s*(\d{1,2}(?::\d{2}){1,2}\.\d{3})`)

// ParseVTT scans line-oriented WebVTT input for cue blocks. Each block is
// delimited by a timing line; all non-blank lines that follow, up to the
// next blank line, form the cue text and are joined with spaces. Lines that
// are not valid timing lines are skipped, so malformed blocks degrade to
// nothing rather than aborting the parse.
func ParseVTT(raw string) (Sequence, error) {
	lines := strings.Split(raw, "\n")
	var seq Sequence

	for i := 0; i < len(lines); i++ {
		m := timingLineRe.FindStringSubmatch(strings.TrimRight(lines[i], "\r"))
		if m == nil {
			continue
		}

		startMs, ok1 := parseVTTTimestamp(m[1])
		endMs, ok2 := parseVTTTimestamp(m[2])
		if !ok1 || !ok2 {
			continue
		}

		var textLines []string
		j := i + 1
		for ; j < len(lines); j++ {
			line := strings.TrimSpace(strings.TrimRight(lines[j], "\r"))
			if line == "" {
				break
			}
			textLines = append(textLines, line)
		}
		i = j

		text := CleanText(strings.Join(textLines, " "))
		if text == "" {
			continue
		}

		seq = append(seq, Segment{
			Text:       text,
			OffsetMs:   startMs,
			DurationMs: ClampDuration(endMs - startMs),
		})
	}

	if len(seq) == 0 {
		return nil, ErrNoCues
	}
	return seq, nil
}

// parseVTTTimestamp converts "HH:MM:SS.mmm" or "MM:SS.mmm" to milliseconds.
// Colon-separated fields are weighted positionally: each field is worth 60
// times the one to its right.
func parseVTTTimestamp(ts string) (int64, bool) {
	var total float64
	for _, part := range strings.Split(ts, ":") {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + v
	}
	return MillisFromSeconds(total), true
}
