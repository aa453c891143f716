package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/core/ports/driving"
)

var (
	downloadQuery    queryFlags
	downloadEditorID string
	downloadOutput   string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a channel's clips without the duplicates",
	Long: `Runs the same discovery and filtering as scan, then downloads the remaining
clips into the output directory.

Download links are only issued to an editor of the channel, so --editor-id
must be the user ID the access token belongs to. Files are named
<date>_<title>_<creator>_<id>.mp4. A clip with no download link is
reported as failed.`,
	Example: `  clipper download --channel 67955580 --editor-id 67955580 --start 2024-05-01 --end 2024-05-31
  clipper download -c 67955580 --editor-id 1234 --start 2024-05-01T18:00:00Z --end 2024-05-01T23:00:00Z -o ./may`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	downloadQuery.register(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadEditorID, "editor-id", "", "user ID of a channel editor (required)")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	query, err := downloadQuery.shape(time.Now())
	if err != nil {
		return err
	}

	outputDir := strings.TrimSpace(downloadOutput)
	if outputDir == "" && configStore != nil {
		outputDir = configStore.GetString(driven.ConfigOutputDir)
	}
	if outputDir == "" {
		outputDir = "clips"
	}

	printer := startProgress(cmd.ErrOrStderr())
	svc, err := clipServiceFor(ServiceOptions{Progress: printer.sink, ScanBudget: downloadQuery.budget})
	if err != nil {
		printer.Stop()
		return err
	}

	result, err := svc.DownloadRange(cmd.Context(), query, strings.TrimSpace(downloadEditorID), outputDir)
	printer.Stop()
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	outputDownloadSummary(cmd, result, outputDir)
	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d clips failed to download", result.FailedCount, result.ClipCount)
	}
	return nil
}

func outputDownloadSummary(cmd *cobra.Command, result *driving.DownloadResult, outputDir string) {
	cmd.Printf("Clips:          %d of %d discovered\n", result.ClipCount, result.OriginalCount)
	cmd.Printf("Total duration: %s\n", formatSeconds(result.TotalDurationSeconds))
	cmd.Printf("Downloaded:     %d into %s\n", result.DownloadedCount, outputDir)
	if result.FailedCount > 0 {
		cmd.Printf("Failed:         %d\n", result.FailedCount)
		for _, id := range result.FailedIDs {
			cmd.Printf("  %s\n", id)
		}
	}
}
