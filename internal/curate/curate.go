// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package curate drives extraction and persistence over lists of dataset
// URLs. Processing is strictly sequential with a fixed delay between
// fetches; the delay is politeness toward the source site, not a
// correctness requirement, but it is load-bearing and must stay.
package curate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/dataset-curator/internal/catalog"
	"github.com/pdiddy/dataset-curator/internal/extract"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

// Deps bundles the collaborators a curation run needs.
type Deps struct {
	Client    *http.Client
	Extractor *extract.Extractor
	Store     catalog.Store
	Config    types.ExtractionConfig
}

// URLResult is the per-URL outcome of a batch run.
type URLResult struct {
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates a batch run. Results preserves input order.
type Summary struct {
	Total         int         `json:"total"`
	Successful    int         `json:"successful"`
	AlreadyExists int         `json:"already_exists"`
	Updated       int         `json:"updated"`
	Failed        int         `json:"failed"`
	Results       []URLResult `json:"results"`
}

// One extracts and persists a single URL. Extraction failure returns the
// error without touching the store; save failures come back as an error
// result, so the caller always has an outcome to report.
func One(ctx context.Context, deps Deps, url string) (*types.DatasetRecord, *catalog.SaveResult, error) {
	rec, err := deps.Extractor.FromURL(ctx, deps.Client, url, deps.Config)
	if err != nil {
		return nil, nil, err
	}

	result, err := deps.Store.Save(ctx, rec)
	if err != nil {
		result = catalog.ErrorResult(err)
	}
	return rec, result, nil
}

// Batch processes urls one at a time, never concurrently, waiting delay
// between consecutive fetches. One URL's failure records a failed entry
// and never aborts the rest. Progress lines go to w.
func Batch(ctx context.Context, deps Deps, urls []string, delay time.Duration, w io.Writer) (Summary, error) {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	summary := Summary{Total: len(urls), Results: make([]URLResult, 0, len(urls))}

	for i, url := range urls {
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}

		fmt.Fprintf(w, "[%d/%d] processing %s\n", i+1, len(urls), url)

		rec, saveResult, err := One(ctx, deps, url)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, URLResult{
				URL:    url,
				Status: catalog.StatusError,
				Error:  err.Error(),
			})
			fmt.Fprintf(w, "  failed: %v\n", err)
			continue
		}

		switch saveResult.Status {
		case catalog.StatusSaved:
			summary.Successful++
		case catalog.StatusExists:
			summary.AlreadyExists++
		case catalog.StatusUpdated:
			summary.Updated++
		case catalog.StatusError:
			summary.Failed++
		}

		summary.Results = append(summary.Results, URLResult{
			URL:    url,
			Title:  rec.Title,
			Status: saveResult.Status,
			Error:  errorText(saveResult),
		})
		fmt.Fprintf(w, "  %s: %s\n", saveResult.Status, rec.Title)
	}

	fmt.Fprintf(w, "\ntotal: %d, saved: %d, exists: %d, updated: %d, failed: %d\n",
		summary.Total, summary.Successful, summary.AlreadyExists, summary.Updated, summary.Failed)

	return summary, nil
}

func errorText(r *catalog.SaveResult) string {
	if r.Status == catalog.StatusError {
		return r.Message
	}
	return ""
}
