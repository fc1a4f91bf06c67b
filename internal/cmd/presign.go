package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var presignTTL time.Duration

var presignCmd = &cobra.Command{
	Use:   "presign <key>",
	Short: "Generate a time-limited download URL",
	Long: `Generate a presigned GET URL for the object at the given key. Anyone
holding the URL can download the object until it expires.`,
	Args: cobra.ExactArgs(1),
	RunE: runPresign,
}

func init() {
	rootCmd.AddCommand(presignCmd)
	presignCmd.Flags().DurationVar(&presignTTL, "ttl", 15*time.Minute, "How long the URL stays valid")
}

func runPresign(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	url, err := op.PresignGet(ctx, key, presignTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
