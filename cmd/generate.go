package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uuidify/uuidify-go/uuidify"
)

var generateCommands = []struct {
	kind  uuidify.Kind
	use   string
	short string
}{
	{uuidify.KindUUIDv1, "v1", "Generate time-based UUIDv1 identifiers"},
	{uuidify.KindUUIDv4, "v4", "Generate random UUIDv4 identifiers"},
	{uuidify.KindUUIDv7, "v7", "Generate time-ordered UUIDv7 identifiers"},
	{uuidify.KindULID, "ulid", "Generate ULID identifiers"},
}

func init() {
	for _, gc := range generateCommands {
		rootCmd.AddCommand(newGenerateCmd(gc.kind, gc.use, gc.short))
	}
}

// newGenerateCmd builds one command per identifier kind
func newGenerateCmd(kind uuidify.Kind, use, short string) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: fmt.Sprintf(`%s.

With --count 1 (the default) a single identifier is printed, otherwise the
service is asked for a batch. The count is passed to the service as given.`, short),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Generate(cmd.Context(), kind, count)
			if err != nil {
				return fmt.Errorf("failed to generate %s: %w", kind, err)
			}

			logger.Info().Str("kind", kind.String()).Int("count", count).Msg("Generated identifiers")
			return writeResults(cmd.OutOrStdout(), []uuidify.Result{result}, cfg.Output)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", uuidify.DefaultCount, "number of identifiers to request")
	return cmd
}
