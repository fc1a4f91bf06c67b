package cmd

import (
	"io"
	"mime"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skyloom/r2ops/internal/observability"
	"github.com/skyloom/r2ops/pkg/r2"
)

var (
	putContentType  string
	putCacheControl string
)

var putCmd = &cobra.Command{
	Use:   "put <key> [file]",
	Short: "Upload a file or stdin to the bucket",
	Long: `Upload an object under the given key.

With a file argument the file content is uploaded; with "-" or no file,
stdin is read. The content type is taken from --content-type, or guessed
from the key's extension.

Examples:
  r2ops put docs/hello.txt ./hello.txt
  cat report.json | r2ops put reports/today.json --content-type application/json
  r2ops put img/logo.png ./logo.png --cache-control "public, max-age=86400"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().StringVar(&putContentType, "content-type", "", "MIME type of the object (default: guessed from key)")
	putCmd.Flags().StringVar(&putCacheControl, "cache-control", "", "Cache-Control directive (default \"no-cache\")")
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	contentType := putContentType
	if contentType == "" {
		contentType = guessContentType(key)
	}

	var opts []r2.UploadOption
	if putCacheControl != "" {
		opts = append(opts, r2.WithCacheControl(putCacheControl))
	}

	fromStdin := len(args) < 2 || args[1] == "-"
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := op.UploadBinary(ctx, key, contentType, data, opts...); err != nil {
			return err
		}
		observability.CLILogger.Info("uploaded from stdin",
			zap.String("key", key), zap.Int("bytes", len(data)), zap.String("content_type", contentType))
		return nil
	}

	path := args[1]
	if err := op.UploadFile(ctx, key, contentType, path, opts...); err != nil {
		return err
	}
	observability.CLILogger.Info("uploaded file",
		zap.String("key", key), zap.String("path", path), zap.String("content_type", contentType))
	return nil
}

// guessContentType maps a key's extension to a MIME type, falling back to
// application/octet-stream.
func guessContentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
