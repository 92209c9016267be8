package scraper

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter(t *testing.T) {
	t.Run("new file gets a header row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		w, err := NewCSVWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		rows := readAllRows(t, path)
		require.Len(t, rows, 1)
		require.Equal(t, Header, rows[0])
	})

	t.Run("rows append and values survive csv quoting", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		w, err := NewCSVWriter(path)
		require.NoError(t, err)

		rec := Record{
			URL:      "https://example.com/a?x=1&y=2",
			Title:    `He said, "hello"`,
			Headings: []string{"One", "Two, with comma"},
			Links:    []string{"/a", "/b"},
			Images:   nil,
		}
		require.NoError(t, w.Write(rec))
		require.NoError(t, w.Close())

		rows := readAllRows(t, path)
		require.Len(t, rows, 2)
		require.Equal(t, rec.URL, rows[1][0])
		require.Equal(t, rec.Title, rows[1][1])
		require.Equal(t, []string{"One", "Two, with comma"}, SplitMultiValue(rows[1][2]))
		require.Equal(t, []string{"/a", "/b"}, SplitMultiValue(rows[1][3]))
		require.Empty(t, rows[1][4])
	})

	t.Run("reopening an existing file skips the header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		w, err := NewCSVWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(Record{URL: "https://example.com/1"}))
		require.NoError(t, w.Close())

		w2, err := NewCSVWriter(path)
		require.NoError(t, err)
		require.NoError(t, w2.Write(Record{URL: "https://example.com/2"}))
		require.NoError(t, w2.Close())

		rows := readAllRows(t, path)
		require.Len(t, rows, 3)
		require.Equal(t, Header, rows[0])
		require.Equal(t, "https://example.com/1", rows[1][0])
		require.Equal(t, "https://example.com/2", rows[2][0])
	})
}

func TestMultiValueRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		values []string
	}{
		{"plain", []string{"a", "b", "c"}},
		{"embedded separator", []string{"left|right", "plain"}},
		{"embedded backslash", []string{`C:\path\file`, "x"}},
		{"separator and backslash", []string{`a\|b`, `\\`}},
		{"empty element", []string{"", "mid", ""}},
		{"single", []string{"only"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.values, SplitMultiValue(JoinMultiValue(tc.values)))
		})
	}

	t.Run("empty slice joins to empty cell", func(t *testing.T) {
		require.Empty(t, JoinMultiValue(nil))
		require.Nil(t, SplitMultiValue(""))
	})
}
