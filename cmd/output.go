package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/uuidify/uuidify-go/config"
	"github.com/uuidify/uuidify-go/ident"
	"github.com/uuidify/uuidify-go/uuidify"
)

// resultView is the JSON shape printed for one request
type resultView struct {
	Kind       string   `json:"kind"`
	Count      int      `json:"count"`
	ID         string   `json:"id,omitempty"`
	IDs        []string `json:"ids,omitempty"`
	Timestamps []string `json:"timestamps,omitempty"`
}

// writeResults prints results in the configured format, optionally inspecting each identifier
func writeResults(w io.Writer, results []uuidify.Result, opts config.OutputConfig) error {
	views := make([]resultView, 0, len(results))
	for _, r := range results {
		view := resultView{Kind: r.Kind.String(), Count: r.Count}
		if r.IsBatch() {
			view.IDs = r.IDs
		} else {
			view.ID = r.ID
		}

		if opts.Check {
			infos, err := ident.InspectResult(r)
			if err != nil {
				return fmt.Errorf("service returned an invalid %s: %w", r.Kind, err)
			}
			for _, info := range infos {
				view.Timestamps = append(view.Timestamps, formatTimestamp(info.Timestamp))
			}
		}
		views = append(views, view)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(views) == 1 {
			return enc.Encode(views[0])
		}
		return enc.Encode(views)
	}

	for i, r := range results {
		for j, id := range r.Values() {
			line := id
			if opts.Check {
				line = strings.Join([]string{id, r.Kind.String(), views[i].Timestamps[j]}, "\t")
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339Nano)
}
