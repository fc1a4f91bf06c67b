package cmd

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skyloom/r2ops/internal/observability"
)

// probePrefix keeps check artifacts out of the way of real objects.
const probePrefix = "_r2ops/probe/"

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify connectivity with a write probe",
	Long: `Verify the configured bucket is reachable and writable.

A small object is uploaded under a random key below ` + probePrefix + `,
downloaded, compared, and deleted. Each step is one storage call; any
failure is reported and the command exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	key := probePrefix + uuid.New().String()
	payload := []byte("r2ops probe")
	log := observability.CLILogger

	log.Info("probe upload", zap.String("key", key))
	if err := op.UploadBinary(ctx, key, "text/plain", payload); err != nil {
		return fmt.Errorf("probe upload failed: %w", err)
	}

	log.Info("probe download", zap.String("key", key))
	got, err := op.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("probe download failed: %w", err)
	}
	if !bytes.Equal(got, payload) {
		return fmt.Errorf("probe round trip mismatch: sent %d bytes, got %d", len(payload), len(got))
	}

	log.Info("probe delete", zap.String("key", key))
	if err := op.Delete(ctx, key); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}

	log.Info("check passed", zap.String("bucket", op.Bucket()))
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
