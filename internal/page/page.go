// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package page wraps a fetched dataset-description page with the query
// primitives the field extractors need: normalized text for keyword and
// regex matching, and structural lookups for sectioned content.
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/dataset-curator/internal/httputil"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

// Page is a parsed dataset-description document.
type Page struct {
	// URL is the page's source URL.
	URL string

	// Text is the full page text with whitespace normalized.
	Text string

	// LowerText is Text lowercased, for keyword-set matching.
	LowerText string

	doc *goquery.Document
}

// Fetch downloads and parses the page at url. A transport failure or
// non-success status is returned as an error; extraction of that URL
// short-circuits and no partial record is produced.
func Fetch(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig) (*Page, error) {
	resp, err := httputil.Get(ctx, client, url, cfg.UserAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return Parse(resp.Body, url)
}

// Parse builds a Page from raw HTML.
func Parse(r io.Reader, url string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}

	text := Normalize(doc.Text())
	return &Page{
		URL:       url,
		Text:      text,
		LowerText: strings.ToLower(text),
		doc:       doc,
	}, nil
}

// Find runs a CSS selector over the document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Heading1 returns the text of the first h1 element, or "" if absent.
func (p *Page) Heading1() string {
	return Normalize(p.doc.Find("h1").First().Text())
}

// Section locates a sectioned region by element id, falling back to the
// parent of an h2 whose text matches headingRe. Returns nil when neither
// anchor exists; sectioned fields then stay at their defaults rather than
// scanning the whole document.
func (p *Page) Section(id string, headingRe *regexp.Regexp) *goquery.Selection {
	if id != "" {
		sel := p.doc.Find("div#" + id + ", section#" + id).First()
		if sel.Length() > 0 {
			return sel
		}
	}
	if headingRe == nil {
		return nil
	}

	var found *goquery.Selection
	p.doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if headingRe.MatchString(Normalize(h.Text())) {
			found = h.Parent()
			return false
		}
		return true
	})
	return found
}

// Normalize collapses all runs of whitespace to single spaces and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FirstWords returns the first n whitespace-separated words of s.
func FirstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
