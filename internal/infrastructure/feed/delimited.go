package feed

import (
	"encoding/csv"
	"io"
	"strings"
)

// Table is the parsed form of a delimited price list. Rows hold only the
// lines that survived parsing; TotalLines counts every line seen,
// including skipped ones.
type Table struct {
	Header     []string
	Rows       [][]string
	TotalLines int
}

// DetectDelimiter picks the field delimiter of a delimited feed from its
// first line. Any semicolon selects ';': the semicolon price lists carry
// commas inside free-text fields and as decimal separators, so counting
// would misfire on them.
func DetectDelimiter(firstLine string) rune {
	if strings.ContainsRune(firstLine, ';') {
		return ';'
	}
	return ','
}

// ParseDelimited reads a delimited feed with the given delimiter. The
// first line becomes the header. Malformed lines and lines with fewer
// than two fields are skipped rather than failing the whole feed.
func ParseDelimited(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &Table{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Tolerate malformed lines, the feeds carry occasional garbage
			table.TotalLines++
			continue
		}
		table.TotalLines++

		if table.Header == nil {
			table.Header = record
			continue
		}
		if len(record) < 2 {
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// ColumnIndex returns the index of the named header column, matched
// case-insensitively, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Field returns the trimmed value of column idx in row, or "" when the
// row is too short
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
