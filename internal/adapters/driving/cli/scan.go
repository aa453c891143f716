package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipper/internal/core/ports/driving"
)

var (
	scanQuery queryFlags
	scanList  bool
	scanJSON  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find a channel's clips without downloading them",
	Long: `Lists the channel's clips created between --start and --end, applies the
account filter and removes clips whose footage is covered by longer clips.

A clip is removed when at least --threshold of its seconds are covered by
other kept clips and no uncovered run inside it is longer than --max-gap
seconds. The listing is cached on disk for five minutes, so a download
with the same flags right after a scan does not list the clips again.`,
	Example: `  clipper scan --channel 67955580 --start 2024-05-01 --end 2024-05-31
  clipper scan -c 67955580 --start 2024-05-01 --end 2024-05-02 --mode blacklist --accounts nightbot --list`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanQuery.register(scanCmd)
	scanCmd.Flags().BoolVarP(&scanList, "list", "l", false, "print every remaining clip")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	query, err := scanQuery.shape(time.Now())
	if err != nil {
		return err
	}

	printer := startProgress(cmd.ErrOrStderr())
	svc, err := clipServiceFor(ServiceOptions{Progress: printer.sink, ScanBudget: scanQuery.budget})
	if err != nil {
		printer.Stop()
		return err
	}

	result, err := svc.Scan(cmd.Context(), query)
	printer.Stop()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanJSON {
		return outputScanJSON(cmd, result)
	}
	outputScanSummary(cmd, result)
	return nil
}

func outputScanJSON(cmd *cobra.Command, result *driving.ScanResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputScanSummary(cmd *cobra.Command, result *driving.ScanResult) {
	cmd.Printf("Clips:          %d of %d discovered\n", result.ClipCount, result.OriginalCount)
	cmd.Printf("Total duration: %s\n", formatSeconds(result.TotalDurationSeconds))
	cmd.Printf("Estimated size: %s\n", formatBytes(result.EstimatedBytes))
	if result.PartialFiltering {
		cmd.Printf("Unfiltered:     %d clips have no timeline offset\n", result.UnknownOffsetCount)
	}
	if result.CacheHit {
		cmd.Println("(cached discovery result)")
	}
	if scanList && len(result.Clips) > 0 {
		cmd.Println()
		printClips(cmd, result.Clips)
	}
}
