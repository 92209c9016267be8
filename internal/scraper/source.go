package scraper

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// StaticSource yields an explicit caller-supplied URL list.
type StaticSource struct {
	urls []string
}

// NewStaticSource builds a Source over the given URLs.
func NewStaticSource(urls []string) *StaticSource {
	return &StaticSource{urls: urls}
}

// URLs implements Source.
func (s *StaticSource) URLs(context.Context) ([]WorkItem, error) {
	items := make([]WorkItem, 0, len(s.urls))
	for _, u := range s.urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		items = append(items, WorkItem{URL: u, Origin: OriginList, State: ItemPending})
	}
	return items, nil
}

// FileSource reads one URL per line from a text file. Blank lines and
// lines starting with '#' are ignored.
type FileSource struct {
	path string
}

// NewFileSource builds a Source over a URL list file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// URLs implements Source.
func (s *FileSource) URLs(context.Context) ([]WorkItem, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open url file %s: %w", s.path, err)
	}
	defer f.Close() //nolint:errcheck

	var items []WorkItem
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, WorkItem{URL: line, Origin: OriginFile, State: ItemPending})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file %s: %w", s.path, err)
	}
	return items, nil
}
