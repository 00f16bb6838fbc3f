package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okFrag(order int, content string) Fragment {
	return Fragment{Success: true, Content: content, SourceOrder: order}
}

func failedFrag(order int, content string) Fragment {
	return Fragment{Success: false, Content: content, SourceOrder: order}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
		want      [][]string
	}{
		{
			name:      "repeated header skipped by exact match",
			fragments: []Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "A,B\n3,4")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:      "shape mismatch keeps every row",
			fragments: []Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "X\n5")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"X"}, {"5"}},
		},
		{
			name:      "header match ignores case and padding",
			fragments: []Fragment{okFrag(0, "Date,Amount\n1,2"), okFrag(1, " date , AMOUNT \n3,4")},
			want:      [][]string{{"Date", "Amount"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:      "renamed header skipped by numeric shift",
			fragments: []Fragment{okFrag(0, "Name,Qty\nfoo,1"), okFrag(1, "Item,Count\nbar,2")},
			want:      [][]string{{"Name", "Qty"}, {"foo", "1"}, {"bar", "2"}},
		},
		{
			name:      "keyword header skipped",
			fragments: []Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "Date,Total\nx,y")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"x", "y"}},
		},
		{
			name:      "multi-row fragment defaults to header",
			fragments: []Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "foo,bar\nbaz,qux")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"baz", "qux"}},
		},
		{
			name:      "single-row fragment defaults to data",
			fragments: []Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "foo,bar")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"foo", "bar"}},
		},
		{
			name:      "first fragment kept verbatim",
			fragments: []Fragment{okFrag(0, "A,B\nA,B\n1,2")},
			want:      [][]string{{"A", "B"}, {"A", "B"}, {"1", "2"}},
		},
		{
			name:      "failed fragments ignored",
			fragments: []Fragment{failedFrag(0, "Z,Z\n9,9"), okFrag(1, "A,B\n1,2"), failedFrag(2, "A,B\n7,7")},
			want:      [][]string{{"A", "B"}, {"1", "2"}},
		},
		{
			name:      "blank fragment tolerated",
			fragments: []Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "  \n\n"), okFrag(2, "A,B\n3,4")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:      "empty first fragment does not supply the header",
			fragments: []Fragment{okFrag(0, "```csv\n```"), okFrag(1, "A,B\n1,2"), okFrag(2, "A,B\n3,4")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name: "code fences and quotes stripped",
			fragments: []Fragment{
				okFrag(0, "```csv\n\"A\",\"B\"\n\"1\",\"2\"\n```"),
				okFrag(1, "```\n\"A\",\"B\"\n\n\"3\",\"4\"\n```"),
			},
			want: [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:      "fragment order is caller order",
			fragments: []Fragment{okFrag(5, "A,B\n1,2"), okFrag(1, "A,B\n3,4")},
			want:      [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Combine(tt.fragments)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Rows())
		})
	}
}

func TestCombine_NoUsableFragments(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
	}{
		{"nil input", nil},
		{"all failed", []Fragment{failedFrag(0, "A,B\n1,2"), failedFrag(1, "A,B")}},
		{"all blank", []Fragment{okFrag(0, ""), okFrag(1, "\n  \n"), okFrag(2, "```csv\n```")}},
		{"failed and blank", []Fragment{failedFrag(0, "A"), okFrag(1, " ")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Combine(tt.fragments)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, ErrNoUsableFragments), "got %v", err)
		})
	}
}

func TestCombineWithReport(t *testing.T) {
	fragments := []Fragment{
		failedFrag(0, ""),
		okFrag(1, "A,B\n1,2"),
		okFrag(2, ""),
		okFrag(3, "a,b\n3,4"),
		okFrag(4, "X\n5"),
	}

	table, report, err := NewCombiner().CombineWithReport(fragments)
	require.NoError(t, err)
	require.Len(t, report.Fragments, 5)

	assert.Equal(t, []string{"A", "B"}, report.ReferenceHeader)
	assert.Equal(t, table.Len(), report.TotalRows)
	assert.Equal(t, 5, report.TotalRows)

	assert.True(t, report.Fragments[0].Failed)

	assert.True(t, report.Fragments[1].Reference)
	assert.Equal(t, 2, report.Fragments[1].RetainedRows)

	assert.Contains(t, report.Fragments[2].Error, ErrMalformedFragment.Error())
	assert.Zero(t, report.Fragments[2].RetainedRows)

	assert.Equal(t, RuleExactMatch, report.Fragments[3].HeaderRule)
	assert.True(t, report.Fragments[3].HeaderSkipped)
	assert.Equal(t, 1, report.Fragments[3].RetainedRows)

	assert.Equal(t, RuleShapeMismatch, report.Fragments[4].HeaderRule)
	assert.False(t, report.Fragments[4].HeaderSkipped)
	assert.Equal(t, 2, report.Fragments[4].RetainedRows)
}

func TestCombiner_CustomRules(t *testing.T) {
	c := &Combiner{Rules: []HeaderRule{{Name: RuleShapeMismatch, Decide: ShapeMismatchRule}}}

	// Without the default rule every rule abstains and the first row is data.
	table, err := c.Combine([]Fragment{okFrag(0, "A,B\n1,2"), okFrag(1, "foo,bar\n3,4")})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A", "B"}, {"1", "2"}, {"foo", "bar"}, {"3", "4"}}, table.Rows())
}

func TestCombine_ExportReparse(t *testing.T) {
	table, err := Combine([]Fragment{okFrag(0, "Time,Value\n1,10\n2,20"), okFrag(1, "Time,Value\n3,30")})
	require.NoError(t, err)

	again, err := Combine([]Fragment{okFrag(0, table.ExportText())})
	require.NoError(t, err)

	assert.True(t, table.Equal(again))
}
