package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).
		WithHeader([]string{"HEADER1", "H2", "h3"}).
		WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft}).
		WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight}).
		Append([]string{"ROW1", "ROW2", "foo bar"}).
		Append([]string{"a", "b", "c"}).
		Render()

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestTableIgnoresAnsiWidths(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).
		WithHeader([]string{"A", "B"}).
		Append([]string{"\x1b[1mbold\x1b[0m", "x"}).
		Render()

	// The colored cell pads as four visible characters wide.
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		plain := ansiPattern.ReplaceAllString(line, "")
		require.Len(t, plain, 12)
	}
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).Render()
	require.Empty(t, buf.String())
}

func TestWithRows(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).
		WithRows([][]string{{"1", "2"}, {"3", "4"}}).
		Render()
	require.Equal(t, "+---+---+\n| 1 | 2 |\n| 3 | 4 |\n+---+---+\n", buf.String())
}
