package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"  abc  ", "abc"},
		{`"abc"`, "abc"},
		{` "abc" `, "abc"},
		{`" padded "`, " padded "},
		{`""abc""`, `"abc"`},
		{`"`, `"`},
		{`""`, ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanCell(tt.in), "CleanCell(%q)", tt.in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"10", 10, true},
		{" -2.5 ", -2.5, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
		{"1e400", 0, false},
		{"0x1p4", 0, false},
		{"-0X1P-2", 0, false},
		{"+0x10", 0, false},
		{"0", 0, true},
		{"0.5", 0.5, true},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.valid, ok, "ParseNumber(%q) ok", tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got, "ParseNumber(%q)", tt.in)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "30", FormatNumber(30))
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, "-0.125", FormatNumber(-0.125))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", "A,B\n1,2", "A,B\n1,2"},
		{"csv fence", "```csv\nA,B\n1,2\n```", "A,B\n1,2"},
		{"bare fence", "```\nA,B\n```", "A,B"},
		{"trailing fence on last row", "```\nA,B\n1,2```", "A,B\n1,2"},
		{"surrounding whitespace", "\n\n  ```csv\nA,B\n```  \n", "A,B"},
		{"marker only", "```", ""},
		{"inline", "```A,B```", "A,B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestParseText(t *testing.T) {
	table := ParseText("```csv\n\"A\", \"B\"\r\n\n 1 ,2\n\n```")

	assert.Equal(t, [][]string{{"A", "B"}, {"1", "2"}}, table.Rows())
}

func TestParseText_StripsBOMAndInvalidUTF8(t *testing.T) {
	table := ParseText("\xef\xbb\xbfA,B\nx\xff,2")

	require.Equal(t, 2, table.Len())
	assert.Equal(t, "A", table.Row(0)[0])
	assert.Equal(t, "x�", table.Row(1)[0])
}

func TestExportText(t *testing.T) {
	table := NewTable([][]string{{"A", "B"}, {"1", ""}})

	assert.Equal(t, "\"A\",\"B\"\n\"1\",\"\"", table.ExportText())
}

func TestExportParseRoundTrip(t *testing.T) {
	tables := [][][]string{
		{{"A", "B"}, {"1", "2"}},
		{{"Name", "Note"}, {" padded ", ""}, {"", ""}},
		{{"single"}},
		{{"x", "y", "z"}, {"1.5", "-2", "3e2"}, {"a b", "c\td", "é"}},
	}

	for _, rows := range tables {
		table := NewTable(rows)
		parsed := ParseText(table.ExportText())
		assert.True(t, table.Equal(parsed), "round trip of %v gave %v", rows, parsed.Rows())
	}
}

func TestTable_NormalizePadsWithoutTruncating(t *testing.T) {
	table := NewTable([][]string{{"A", "B"}, {"X"}, {"1", "2", "3"}})
	require.False(t, table.IsRectangular())

	table.Normalize()

	assert.True(t, table.IsRectangular())
	assert.Equal(t, [][]string{{"A", "B", ""}, {"X", "", ""}, {"1", "2", "3"}}, table.Rows())
}

func TestTable_RowsReturnsCopy(t *testing.T) {
	table := NewTable([][]string{{"A"}})

	rows := table.Rows()
	rows[0][0] = "changed"

	cell, ok := table.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, "A", cell)
}

func TestTable_Cell_OutOfRange(t *testing.T) {
	table := NewTable([][]string{{"A", "B"}, {"1"}})

	_, ok := table.Cell(1, 1)
	assert.False(t, ok)
	_, ok = table.Cell(-1, 0)
	assert.False(t, ok)
	_, ok = table.Cell(2, 0)
	assert.False(t, ok)
}

func TestTable_MoveRowAndColumn(t *testing.T) {
	table := NewTable([][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"x", "y", "z"}})

	table.moveRow(0, 2)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"x", "y", "z"}, {"a", "b", "c"}}, table.Rows())

	table.moveColumn(2, 0)
	assert.Equal(t, [][]string{{"3", "1", "2"}, {"z", "x", "y"}, {"c", "a", "b"}}, table.Rows())
}
