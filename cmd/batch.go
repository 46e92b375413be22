package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uuidify/uuidify-go/uuidify"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch KIND[:COUNT]...",
	Short: "Request several kinds of identifiers concurrently",
	Long: `Issue one request per argument, several at a time, and print the results
in argument order. Each argument is a kind (v1, v4, v7, ulid) optionally
followed by a count, e.g.:

  uuidify batch v4 v7:3 ulid:2

The first failing request fails the whole command; nothing is retried.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	requests, err := parseBatchArgs(args)
	if err != nil {
		return err
	}

	logger.Info().Int("requests", len(requests)).Int("concurrency", cfg.Batch.Concurrency).Msg("Running batch")

	results, err := client.GenerateBatch(cmd.Context(), requests)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	return writeResults(cmd.OutOrStdout(), results, cfg.Output)
}

// parseBatchArgs turns "v7:3" style arguments into requests
func parseBatchArgs(args []string) ([]uuidify.Request, error) {
	requests := make([]uuidify.Request, 0, len(args))
	for _, arg := range args {
		name, countStr, hasCount := strings.Cut(arg, ":")

		kind, err := uuidify.ParseKind(name)
		if err != nil {
			return nil, err
		}

		count := uuidify.DefaultCount
		if hasCount {
			count, err = strconv.Atoi(countStr)
			if err != nil {
				return nil, fmt.Errorf("invalid count in %q: %w", arg, err)
			}
		}

		requests = append(requests, uuidify.Request{Kind: kind, Count: count})
	}
	return requests, nil
}
