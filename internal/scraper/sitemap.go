package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

// ErrSitemapUnreachable marks a sitemap that could not be fetched or
// parsed. It is fatal for the whole run.
var ErrSitemapUnreachable = errors.New("sitemap unreachable or invalid")

// SitemapSource resolves the work list from a sitemap XML document. A
// <sitemapindex> document is followed one level deep.
type SitemapSource struct {
	url        string
	fetcher    Fetcher
	retry      RetryPolicy
	identities []string
	logger     *zap.Logger
}

// NewSitemapSource builds a Source over a sitemap URL. The sitemap is
// fetched through the same retrying fetch path as page fetches.
func NewSitemapSource(
	sitemapURL string,
	fetcher Fetcher,
	retry RetryPolicy,
	identities []string,
	logger *zap.Logger,
) *SitemapSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SitemapSource{
		url:        sitemapURL,
		fetcher:    fetcher,
		retry:      retry,
		identities: identities,
		logger:     logger,
	}
}

// URLs implements Source.
func (s *SitemapSource) URLs(ctx context.Context) ([]WorkItem, error) {
	locs, err := s.collect(ctx, s.url, false)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("%w: no <loc> entries in %s", ErrSitemapUnreachable, s.url)
	}
	items := make([]WorkItem, 0, len(locs))
	for _, loc := range locs {
		items = append(items, WorkItem{URL: loc, Origin: OriginSitemap, State: ItemPending})
	}
	s.logger.Info("sitemap resolved", zap.String("sitemap", s.url), zap.Int("urls", len(items)))
	return items, nil
}

func (s *SitemapSource) collect(ctx context.Context, sitemapURL string, nested bool) ([]string, error) {
	page, _, err := FetchWithRetry(ctx, s.fetcher, s.retry, s.identities, sitemapURL, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSitemapUnreachable, sitemapURL, err)
	}
	doc, err := xmlquery.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrSitemapUnreachable, sitemapURL, err)
	}

	if !nested && xmlquery.FindOne(doc, "//sitemapindex") != nil {
		var locs []string
		for _, node := range xmlquery.Find(doc, "//sitemap/loc") {
			child := strings.TrimSpace(node.InnerText())
			if child == "" {
				continue
			}
			childLocs, err := s.collect(ctx, child, true)
			if err != nil {
				return nil, err
			}
			locs = append(locs, childLocs...)
		}
		return locs, nil
	}

	var locs []string
	for _, node := range xmlquery.Find(doc, "//loc") {
		if loc := strings.TrimSpace(node.InnerText()); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs, nil
}
