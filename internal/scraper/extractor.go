package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GoqueryExtractor pulls Record fields from HTML using goquery. The
// underlying parser is lenient: malformed markup yields a best-effort
// document tree, never a fatal error.
type GoqueryExtractor struct{}

// NewGoqueryExtractor constructs the default Extractor.
func NewGoqueryExtractor() *GoqueryExtractor {
	return &GoqueryExtractor{}
}

// Extract implements Extractor. Link and image references are recorded
// exactly as they appear in the markup; relative references are not
// resolved against the page URL.
func (e *GoqueryExtractor) Extract(pageURL string, body []byte) (Record, error) {
	rec := Record{URL: pageURL}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return rec, fmt.Errorf("parse html: %w", err)
	}

	rec.Title = normalizeSpace(doc.Find("title").First().Text())

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeSpace(s.Text()); text != "" {
			rec.Headings = append(rec.Headings, text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			rec.Links = append(rec.Links, href)
		}
	})

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			rec.Images = append(rec.Images, src)
		}
	})

	return rec, nil
}

// normalizeSpace collapses runs of whitespace into single spaces and
// trims the ends, matching how browsers render element text.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
