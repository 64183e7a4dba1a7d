// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-curator/internal/httputil"
	"github.com/pdiddy/dataset-curator/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the curation tools over newline-delimited JSON on stdio",
	Long: `Serve reads one JSON request per line from stdin and writes one JSON
response per line to stdout. Requests name a tool and its arguments:

  {"tool": "search_physionet", "arguments": {"query": "ecg arrhythmia"}}
  {"tool": "list_tools"}

Progress and diagnostics go to stderr; stdout carries responses only, so
a protocol front-end can wrap this loop directly.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// request is one line of input to the serve loop.
type request struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	extractor, err := newExtractor(cfg.Extraction)
	if err != nil {
		return err
	}
	store, err := openStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := tools.NewRegistry(
		httputil.NewClient(cfg.Extraction.HTTPConfig),
		httputil.NewClient(cfg.Search.HTTPConfig),
		extractor, store, cfg, os.Stderr,
	)

	fmt.Fprintln(os.Stderr, "dataset-curator tool server ready")

	out := json.NewEncoder(os.Stdout)
	out.SetEscapeHTML(false)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			writeResponse(out, map[string]string{"error": fmt.Sprintf("invalid request: %v", err)})
			continue
		}

		if req.Tool == "list_tools" {
			writeResponse(out, registry.Tools())
			continue
		}

		result, err := registry.Dispatch(cmd.Context(), req.Tool, req.Arguments)
		if err != nil {
			writeResponse(out, map[string]string{"error": err.Error()})
			continue
		}
		writeResponse(out, result)
	}
	return scanner.Err()
}

func writeResponse(out *json.Encoder, v any) {
	if err := out.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error writing response: %v\n", err)
	}
}
