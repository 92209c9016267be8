package scraper

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// MultiValueSeparator joins the headings/links/images values inside a
// single CSV cell. Literal separators and backslashes inside a value
// are backslash-escaped so the join is lossless.
const MultiValueSeparator = "|"

// Header is the first row of every output file.
var Header = []string{"url", "title", "headings", "links", "images"}

// CSVWriter appends one row per Record to a delimited output file,
// creating the file with a header row when it does not already hold
// data. Quoting follows RFC 4180 via encoding/csv.
type CSVWriter struct {
	file *os.File
	w    *csv.Writer
}

// NewCSVWriter opens (or creates) the output file at path.
func NewCSVWriter(path string) (*CSVWriter, error) {
	needHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(Header); err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("flush header: %w", err)
		}
	}
	return &CSVWriter{file: f, w: w}, nil
}

// Write implements RecordWriter. The row is flushed immediately so a
// later crash cannot lose already-reported records.
func (c *CSVWriter) Write(rec Record) error {
	row := []string{
		rec.URL,
		rec.Title,
		JoinMultiValue(rec.Headings),
		JoinMultiValue(rec.Links),
		JoinMultiValue(rec.Images),
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("write record for %s: %w", rec.URL, err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush record for %s: %w", rec.URL, err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	flushErr := c.w.Error()
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}
	return nil
}

// JoinMultiValue serializes values into a single cell.
func JoinMultiValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, MultiValueSeparator, `\`+MultiValueSeparator)
		escaped[i] = v
	}
	return strings.Join(escaped, MultiValueSeparator)
}

// SplitMultiValue reverses JoinMultiValue.
func SplitMultiValue(cell string) []string {
	if cell == "" {
		return nil
	}
	var (
		values  []string
		current strings.Builder
		escaped bool
	)
	for _, r := range cell {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case string(r) == MultiValueSeparator:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	values = append(values, current.String())
	return values
}
