package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var lsJSON bool

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List object keys in the bucket",
	Long: `List object keys, one per line (or as a JSON array with --json).

At most 10 keys are returned per call; this is a fixed page size with no
continuation token.`,
	Args: cobra.NoArgs,
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Emit a JSON array instead of lines")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	keys, err := op.ListObjects(ctx)
	if err != nil {
		return err
	}

	if lsJSON {
		if keys == nil {
			keys = []string{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(keys)
	}

	for _, key := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}
