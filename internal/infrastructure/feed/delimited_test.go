package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name      string
		firstLine string
		want      rune
	}{
		{"semicolons only", "p_id;p_pn;price", ';'},
		{"commas only", "id,sku,price", ','},
		{"mixed header prefers semicolon", "a;b,c", ';'},
		{"semicolon wins even when outnumbered", "id,sku,price;note", ';'},
		{"commas inside a quoted field name", `"Name, long, descriptive, field";Price`, ';'},
		{"empty line defaults to comma", "", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.firstLine))
		})
	}
}

func TestParseDelimited(t *testing.T) {
	input := strings.Join([]string{
		"p_id;p_pn;price",
		"1;ABC-1;10,50",
		"garbage",
		"2;DEF-2;20,00",
	}, "\n")

	table, err := ParseDelimited(strings.NewReader(input), ';')
	require.NoError(t, err)

	assert.Equal(t, []string{"p_id", "p_pn", "price"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "ABC-1", table.Rows[0][1])
	assert.Equal(t, "DEF-2", table.Rows[1][1])
	assert.Equal(t, 4, table.TotalLines)
}

func TestParseDelimited_QuotedFields(t *testing.T) {
	input := "id,name,price\n1,\"Widget, large\",5.00\n"

	table, err := ParseDelimited(strings.NewReader(input), ',')
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Widget, large", table.Rows[0][1])
}

func TestParseDelimited_Empty(t *testing.T) {
	table, err := ParseDelimited(strings.NewReader(""), ';')
	require.NoError(t, err)
	assert.Nil(t, table.Header)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 0, table.TotalLines)
}

func TestTable_ColumnIndex(t *testing.T) {
	table := &Table{Header: []string{"p_id", " ImSKU ", "FinalPrice"}}

	assert.Equal(t, 0, table.ColumnIndex("p_id"))
	assert.Equal(t, 1, table.ColumnIndex("imsku"))
	assert.Equal(t, 2, table.ColumnIndex("FINALPRICE"))
	assert.Equal(t, -1, table.ColumnIndex("missing"))
}

func TestField(t *testing.T) {
	row := []string{" a ", "b"}

	assert.Equal(t, "a", Field(row, 0))
	assert.Equal(t, "b", Field(row, 1))
	assert.Equal(t, "", Field(row, 2))
	assert.Equal(t, "", Field(row, -1))
}
