package feed

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var wideGapRe = regexp.MustCompile(`\s{4,}`)

// Record is one parsed line of a multi-segment feed: super-columns split
// on wide gaps, each holding its own semicolon-separated sub-fields.
type Record struct {
	Segments [][]string
}

// SplitSegments splits a line into super-columns. Tab is the primary
// separator; lines without tabs fall back to runs of four or more spaces,
// which some exports substitute for tabs.
func SplitSegments(line string) []string {
	var parts []string
	if strings.ContainsRune(line, '\t') {
		parts = strings.Split(line, "\t")
	} else {
		parts = wideGapRe.Split(line, -1)
	}
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// SplitFields splits a segment into sub-fields on semicolons, honoring
// double quotes so quoted text may contain the delimiter. A doubled quote
// inside a quoted field is the escape for a literal quote; the enclosing
// quotes are stripped from the result.
func SplitFields(segment string) []string {
	var fields []string
	var sb strings.Builder
	inQuotes := false
	runes := []rune(segment)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				sb.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == ';' && !inQuotes:
			fields = append(fields, strings.TrimSpace(sb.String()))
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(sb.String()))
	return fields
}

// ParseMultiSegment parses a whole multi-segment feed. A line is a data
// row only when the first sub-field of its first segment is a positive
// integer; anything else is a header or decoration line and is dropped.
func ParseMultiSegment(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		segments := SplitSegments(line)
		if len(segments) == 0 {
			continue
		}
		rec := Record{Segments: make([][]string, 0, len(segments))}
		for _, seg := range segments {
			rec.Segments = append(rec.Segments, SplitFields(seg))
		}
		if !isDataRow(rec) {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func isDataRow(rec Record) bool {
	if len(rec.Segments) == 0 || len(rec.Segments[0]) == 0 {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rec.Segments[0][0]))
	return err == nil && n > 0
}

// SegmentField returns sub-field j of segment i, or "" when out of range
func (r Record) SegmentField(i, j int) string {
	if i < 0 || i >= len(r.Segments) {
		return ""
	}
	if j < 0 || j >= len(r.Segments[i]) {
		return ""
	}
	return r.Segments[i][j]
}
