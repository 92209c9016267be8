// Package scraper implements the fetch/extract/write pipeline and the
// types shared by its components.
package scraper
