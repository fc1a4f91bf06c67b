package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skyloom/r2ops/internal/observability"
)

var getCmd = &cobra.Command{
	Use:   "get <key> [dest]",
	Short: "Download an object",
	Long: `Download the object at the given key.

Without a destination the bytes go to stdout. Logs go to stderr, so the
output can be piped or redirected safely.

Examples:
  r2ops get docs/hello.txt
  r2ops get docs/hello.txt ./hello.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	data, err := op.Download(ctx, key)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	dest := args[1]
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	observability.CLILogger.Info("downloaded object",
		zap.String("key", key), zap.String("dest", dest), zap.Int("bytes", len(data)))
	return nil
}
