package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uuidify/uuidify-go/uuidify"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through a few sample requests",
	Long:  `Request a UUIDv4, a batch of three UUIDv7 and a ULID, printing each step.`,
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, "--- uuidify demo ---")

	fmt.Fprintln(out, "\nGenerating UUIDv4...")
	single, err := client.Generate(ctx, uuidify.KindUUIDv4, 1)
	if err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	fmt.Fprintf(out, "Result: %s\n", single.ID)

	fmt.Fprintln(out, "\nGenerating 3 UUIDv7s...")
	batch, err := client.Generate(ctx, uuidify.KindUUIDv7, 3)
	if err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	for i, id := range batch.IDs {
		fmt.Fprintf(out, "  %d: %s\n", i+1, id)
	}

	fmt.Fprintln(out, "\nGenerating ULID...")
	ulid, err := client.Generate(ctx, uuidify.KindULID, 1)
	if err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	fmt.Fprintf(out, "Result: %s\n", ulid.ID)

	return nil
}
