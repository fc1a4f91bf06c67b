package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/skyloom/r2ops/internal/observability"
	"github.com/skyloom/r2ops/pkg/manifest"
	"github.com/skyloom/r2ops/pkg/r2"
)

var (
	pushManifestPath string
	pushBaseDir      string
	pushRPS          float64
	pushDryRun       bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Bulk-upload files from a push manifest",
	Long: `Upload every file matched by a YAML push manifest.

The manifest maps local glob patterns to key prefixes, with per-entry
content type and cache-control:

  version: "1.0"
  defaults:
    cache_control: "no-cache"
  entries:
    - source: "assets/**/*.css"
      key_prefix: "static/"
      content_type: "text/css"

Uploads run sequentially, one storage call per file. --rps caps the request
rate; --dry-run resolves the manifest and prints the plan without uploading.`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringVar(&pushManifestPath, "manifest", "push.yaml", "Path to the push manifest")
	pushCmd.Flags().StringVar(&pushBaseDir, "base-dir", ".", "Directory glob patterns are resolved against")
	pushCmd.Flags().Float64Var(&pushRPS, "rps", 0, "Max upload requests per second (0 = unlimited)")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Resolve the manifest but upload nothing")
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, err := manifest.Load(pushManifestPath)
	if err != nil {
		return err
	}

	uploads, err := m.Expand(pushBaseDir)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		observability.CLILogger.Warn("manifest matched no files",
			zap.String("manifest", pushManifestPath), zap.String("base_dir", pushBaseDir))
		return nil
	}

	if pushDryRun {
		for _, u := range uploads {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", u.LocalPath, u.Key, u.ContentType)
		}
		return nil
	}

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if pushRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(pushRPS), 1)
	}

	for _, u := range uploads {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		var opts []r2.UploadOption
		if u.CacheControl != "" {
			opts = append(opts, r2.WithCacheControl(u.CacheControl))
		}

		if err := op.UploadFile(ctx, u.Key, u.ContentType, u.LocalPath, opts...); err != nil {
			return fmt.Errorf("push %s: %w", u.Key, err)
		}
		observability.CLILogger.Info("pushed",
			zap.String("key", u.Key), zap.String("path", u.LocalPath))
	}

	observability.CLILogger.Info("push complete", zap.Int("objects", len(uploads)))
	return nil
}
