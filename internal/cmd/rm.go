package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skyloom/r2ops/internal/observability"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete an object",
	Long: `Delete the object at the given key.

Deleting a key that does not exist is a no-op, mirroring the store's
semantics.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	if err := op.Delete(ctx, key); err != nil {
		return err
	}
	observability.CLILogger.Info("deleted object", zap.String("key", key))
	return nil
}
