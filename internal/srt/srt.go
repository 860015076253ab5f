// Package srt reads the subtitle files whisper.cpp emits and flattens
// them into plain transcript text.
package srt

import (
	"fmt"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

// Segment represents a single subtitle entry.
type Segment struct {
	ID        int
	StartTime string // Format: 00:00:00,000
	EndTime   string
	Lines     []string
}

// Load reads subtitles from a file and returns them as a slice of Segment.
// The format is detected from the file extension.
func Load(path string) ([]Segment, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return fromAstisub(subs), nil
}

// Validate checks that the segments carry usable dialogue.
func Validate(segments []Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("no subtitles found in file")
	}
	for _, seg := range segments {
		for _, line := range seg.Lines {
			if strings.TrimSpace(line) != "" {
				return nil
			}
		}
	}
	return fmt.Errorf("file contains subtitles but no dialogue text")
}

// PlainText renders segments as transcript text, one subtitle line per
// output line, with blank and whitespace-only lines dropped.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		for _, line := range seg.Lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func fromAstisub(subs *astisub.Subtitles) []Segment {
	segments := make([]Segment, 0, len(subs.Items))
	for i, item := range subs.Items {
		lines := make([]string, 0, len(item.Lines))
		for _, l := range item.Lines {
			lines = append(lines, l.String())
		}

		segments = append(segments, Segment{
			ID:        i + 1,
			StartTime: formatDuration(item.StartAt),
			EndTime:   formatDuration(item.EndAt),
			Lines:     lines,
		})
	}
	return segments
}

func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
