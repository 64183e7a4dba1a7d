// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the source site's dataset search endpoint and
// returns candidate result links. A query that is already a URL bypasses
// the search entirely.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/dataset-curator/internal/httputil"
	"github.com/pdiddy/dataset-curator/internal/page"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

const defaultMaxResults = 5

// contentPathRe matches dataset content URLs: /content/<slug>/<version>.
var contentPathRe = regexp.MustCompile(`/content/[^/]+/[^/]+`)

// Result is one candidate dataset link. Exactly one of URL or Error is
// set; a failed search yields a single Result carrying the error text.
type Result struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Search runs a free-text query against the source site and returns up to
// cfg.MaxResults candidate links, deduplicated by resolved URL in result
// order. A query that is itself a URL is passed through as a single
// synthetic result without touching the network. Failures are reported in
// the result list, never raised.
func Search(ctx context.Context, client *http.Client, query string, cfg types.SearchConfig) []Result {
	if strings.HasPrefix(query, "http") {
		return []Result{{Title: "Direct URL", URL: query}}
	}

	base := cfg.BaseURL
	if base == "" {
		base = "https://physionet.org"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	searchURL := fmt.Sprintf("%s/search/?q=%s&t=content", base, url.QueryEscape(query))

	resp, err := httputil.Get(ctx, client, searchURL, cfg.UserAgent)
	if err != nil {
		return []Result{{Error: fmt.Sprintf("Search failed: %v", err)}}
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return []Result{{Error: fmt.Sprintf("Search failed: %v", err)}}
	}

	var results []Result
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		if len(results) >= maxResults {
			return
		}
		href, _ := link.Attr("href")
		if !contentPathRe.MatchString(href) || !strings.Contains(href, "/content/") {
			return
		}

		full := href
		if strings.HasPrefix(href, "/") {
			full = base + href
		}
		title := page.Normalize(link.Text())
		if title == "" || seen[full] {
			return
		}
		seen[full] = true
		results = append(results, Result{Title: title, URL: full})
	})

	return results
}
