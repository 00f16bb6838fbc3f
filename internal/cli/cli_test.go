package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tablemerge/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "tablemerge", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
		assert.NotEmpty(t, c.Short, c.Name())
		assert.NotEmpty(t, c.Example, c.Name())
	}
	assert.True(t, names["combine"])
	assert.True(t, names["validate"])
}

func TestCombine_OrdersByFileName(t *testing.T) {
	dir := t.TempDir()
	second := writeFile(t, dir, "page2.txt", "Time,Value\n4,40\n5,55\n6,60\n")
	first := writeFile(t, dir, "page1.txt", "```csv\nTime,Value\n1,10\n2,20\n3,30\n```")

	stdout, stderr, err := run(t, "combine", second, first)
	require.NoError(t, err)

	want := `"Time","Value"` + "\n" +
		`"1","10"` + "\n" + `"2","20"` + "\n" + `"3","30"` + "\n" +
		`"4","40"` + "\n" + `"5","55"` + "\n" + `"6","60"` + "\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "(2 issues)")
}

func TestCombine_OutFileAndJSON(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page1.txt", "a,b\n1,2\n2,4\n3,6\n4,9\n")
	out := filepath.Join(dir, "table.csv")

	stdout, _, err := run(t, "combine", page, "--out", out, "--format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `"a","b"`+"\n"+`"1","2"`+"\n"+`"2","4"`+"\n"+`"3","6"`+"\n"+`"4","9"`+"\n", string(data))

	var issues []core.ValidationIssue
	require.NoError(t, json.Unmarshal([]byte(stdout), &issues), stdout)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Row)
	assert.Equal(t, "8", issues[0].Suggestion)
}

func TestCombine_JSONIssuesStayParseableWithSkippedFragment(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.txt", "n\n1\n2\n3\n5\n")
	blank := writeFile(t, dir, "b.txt", "")
	out := filepath.Join(dir, "table.csv")

	stdout, stderr, err := run(t, "combine", good, blank, "--out", out, "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, stderr, "fragment skipped")

	var issues []core.ValidationIssue
	require.NoError(t, json.Unmarshal([]byte(stdout), &issues), stdout)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].Row)
	assert.Equal(t, "4", issues[0].Suggestion)
}

func TestCombine_JSONRequiresOut(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "page1.txt", "a\n1\n2\n3\n")

	_, _, err := run(t, "combine", page, "--format", "json")
	assert.Error(t, err)
}

func TestCombine_NoUsableFragments(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "blank.txt", "\n\n  \n")

	_, _, err := run(t, "combine", empty)
	assert.ErrorIs(t, err, core.ErrNoUsableFragments)
}

func TestCombine_MissingFile(t *testing.T) {
	_, _, err := run(t, "combine", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.csv", `"n"`+"\n"+`"1"`+"\n"+`"2"`+"\n"+`"3"`)
	broken := writeFile(t, dir, "broken.csv", "n\n1\n2\n4\n5\n")

	stdout, _, err := run(t, "validate", clean)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(0 issues)")

	stdout, _, err = run(t, "validate", broken)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(1 issues)")

	_, _, err = run(t, "validate", broken, "--strict")
	assert.Error(t, err)

	_, _, err = run(t, "validate", clean, "--format", "yaml")
	assert.Error(t, err)
}
