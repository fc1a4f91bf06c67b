package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statJSON bool

var statCmd = &cobra.Command{
	Use:   "stat <key>",
	Short: "Show object metadata",
	Long: `Fetch metadata for the object at the given key without downloading
its content: size, content type, cache-control, ETag, last-modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

func init() {
	rootCmd.AddCommand(statCmd)
	statCmd.Flags().BoolVar(&statJSON, "json", false, "Emit JSON instead of text")
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	meta, err := op.Stat(ctx, key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	fmt.Fprintf(out, "Key:           %s\n", meta.Key)
	fmt.Fprintf(out, "Size:          %d\n", meta.Size)
	fmt.Fprintf(out, "Content-Type:  %s\n", meta.ContentType)
	fmt.Fprintf(out, "Cache-Control: %s\n", meta.CacheControl)
	fmt.Fprintf(out, "ETag:          %s\n", meta.ETag)
	fmt.Fprintf(out, "Last-Modified: %s\n", meta.LastModified.Format(time.RFC3339))
	return nil
}
