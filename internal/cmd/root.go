// Package cmd implements the r2ops command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyloom/r2ops/internal/config"
	"github.com/skyloom/r2ops/internal/observability"
	"github.com/skyloom/r2ops/pkg/r2"
)

// versionInfo holds build-time version metadata.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo is called from main with ldflags-injected values.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var (
	flagConfig    string
	flagVerbose   bool
	flagBucket    string
	flagAccessKey string
	flagSecretKey string
	flagEndpoint  string
	flagRegion    string
)

var rootCmd = &cobra.Command{
	Use:   "r2ops",
	Short: "Object operations for Cloudflare R2 buckets",
	Long: `r2ops uploads, downloads, lists, and deletes objects in a Cloudflare R2
bucket through its S3-compatible API.

Connection settings resolve from flags, R2OPS_* environment variables, an
optional r2ops.yaml config file, and a .env file, in that order.

Examples:
  r2ops put docs/hello.txt ./hello.txt --content-type text/plain
  r2ops get docs/hello.txt
  r2ops ls --json
  r2ops push --manifest push.yaml
  r2ops serve --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.InitCLILogger(flagVerbose)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config file (default ./r2ops.yaml)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flagBucket, "bucket", "", "Bucket name (overrides R2OPS_BUCKET_NAME)")
	pf.StringVar(&flagAccessKey, "access-key-id", "", "Access key id (overrides R2OPS_ACCESS_KEY_ID)")
	pf.StringVar(&flagSecretKey, "secret-access-key", "", "Secret access key (overrides R2OPS_SECRET_ACCESS_KEY)")
	pf.StringVar(&flagEndpoint, "endpoint", "", "R2 endpoint URL (overrides R2OPS_ENDPOINT)")
	pf.StringVar(&flagRegion, "region", "", "Region (default \"auto\")")
}

// Execute runs the root command.
func Execute() error {
	defer observability.Sync()
	return rootCmd.Execute()
}

// loadSettings resolves configuration and applies flag overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if flagBucket != "" {
		settings.BucketName = flagBucket
	}
	if flagAccessKey != "" {
		settings.AccessKeyID = flagAccessKey
	}
	if flagSecretKey != "" {
		settings.SecretAccessKey = flagSecretKey
	}
	if flagEndpoint != "" {
		settings.Endpoint = flagEndpoint
	}
	if flagRegion != "" {
		settings.Region = flagRegion
	}

	return settings, nil
}

// buildOperator resolves settings and constructs the bucket operator.
func buildOperator(ctx context.Context) (*r2.Operator, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	return r2.NewBuilder().
		BucketName(settings.BucketName).
		AccessKeyID(settings.AccessKeyID).
		SecretAccessKey(settings.SecretAccessKey).
		Endpoint(settings.Endpoint).
		Region(settings.Region).
		Build(ctx)
}
