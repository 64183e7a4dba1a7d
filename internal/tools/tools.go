// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools exposes the curation operations as named tools with JSON
// schemas and JSON-shaped payloads, the surface a protocol front-end
// mounts for an automation agent.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/dataset-curator/internal/catalog"
	"github.com/pdiddy/dataset-curator/internal/curate"
	"github.com/pdiddy/dataset-curator/internal/extract"
	"github.com/pdiddy/dataset-curator/internal/search"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

// Tool describes one callable operation.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Registry binds the tool surface to its collaborators. Page fetches and
// the search endpoint use separate clients; each stage's HTTP settings
// are configured independently.
type Registry struct {
	client       *http.Client
	searchClient *http.Client
	extractor    *extract.Extractor
	store        catalog.Store
	cfg          types.PipelineConfig

	// logw receives progress lines; a protocol front-end reserves stdout,
	// so this defaults to stderr in the CLI.
	logw io.Writer
}

// NewRegistry builds the tool registry. client serves page fetches,
// searchClient serves search queries.
func NewRegistry(client, searchClient *http.Client, extractor *extract.Extractor, store catalog.Store, cfg types.PipelineConfig, logw io.Writer) *Registry {
	return &Registry{
		client:       client,
		searchClient: searchClient,
		extractor:    extractor,
		store:        store,
		cfg:          cfg,
		logw:         logw,
	}
}

// Tools lists the operations this registry can dispatch.
func (r *Registry) Tools() []Tool {
	return []Tool{
		{
			Name:        "search_physionet",
			Description: "Search for PhysioNet datasets",
			InputSchema: objectSchema(map[string]any{
				"query": map[string]any{"type": "string"},
			}, "query"),
		},
		{
			Name:        "get_dataset_metadata",
			Description: "Extract metadata from a PhysioNet dataset URL",
			InputSchema: objectSchema(map[string]any{
				"url": map[string]any{"type": "string"},
			}, "url"),
		},
		{
			Name:        "curate_and_save_dataset",
			Description: "Fetch, analyze, and save a dataset",
			InputSchema: objectSchema(map[string]any{
				"url": map[string]any{"type": "string"},
			}, "url"),
		},
		{
			Name:        "batch_curate_datasets",
			Description: "Curate multiple datasets sequentially",
			InputSchema: objectSchema(map[string]any{
				"urls": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			}, "urls"),
		},
		{
			Name:        "get_database_stats",
			Description: "Get statistics about curated datasets",
			InputSchema: objectSchema(map[string]any{}),
		},
	}
}

// Dispatch decodes args and runs the named tool. Operation-level failures
// (fetch errors, store errors) come back inside the payload, never as a
// Go error; only malformed requests and unknown tool names error out.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	case "search_physionet":
		var in struct {
			Query string `json:"query"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return search.Search(ctx, r.searchClient, in.Query, r.cfg.Search), nil

	case "get_dataset_metadata":
		var in struct {
			URL string `json:"url"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		rec, err := r.extractor.FromURL(ctx, r.client, in.URL, r.cfg.Extraction)
		if err != nil {
			return errorPayload("Failed to extract metadata: %v", err), nil
		}
		return rec, nil

	case "curate_and_save_dataset":
		var in struct {
			URL string `json:"url"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		fmt.Fprintf(r.logw, "curating: %s\n", in.URL)

		deps := r.deps()
		rec, saveResult, err := curate.One(ctx, deps, in.URL)
		if err != nil {
			return errorPayload("Failed to extract metadata: %v", err), nil
		}
		return map[string]any{
			"metadata":    rec,
			"save_result": saveResult,
		}, nil

	case "batch_curate_datasets":
		var in struct {
			URLs []string `json:"urls"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		fmt.Fprintf(r.logw, "batch curating %d datasets\n", len(in.URLs))

		summary, err := curate.Batch(ctx, r.deps(), in.URLs, r.cfg.Batch.RequestDelay, r.logw)
		if err != nil {
			return nil, err
		}
		return summary, nil

	case "get_database_stats":
		stats, err := r.store.Stats(ctx)
		if err != nil {
			return errorPayload("Stats failed: %v", err), nil
		}
		return stats, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

func (r *Registry) deps() curate.Deps {
	return curate.Deps{
		Client:    r.client,
		Extractor: r.extractor,
		Store:     r.store,
		Config:    r.cfg.Extraction,
	}
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("decoding tool arguments: %w", err)
	}
	return nil
}

func errorPayload(format string, args ...any) map[string]string {
	return map[string]string{"error": fmt.Sprintf(format, args...)}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
