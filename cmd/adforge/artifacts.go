package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"adforge/internal/artifact"
)

var artifactsKind string

// artifactsCmd lists registered campaign artifacts
var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List the artifacts produced by past runs",
	Long: `Lists the artifact manifest (output/artifacts.json): every image and
report registered by completed runs, with run ID, size, and timestamps.`,
	RunE: listArtifacts,
}

func init() {
	artifactsCmd.Flags().StringVar(&artifactsKind, "kind", "", "Filter by kind: image or report")
}

// listArtifacts prints the artifact manifest.
func listArtifacts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registrar := artifact.NewManifestRegistrar(cfg.Output.Dir)
	entries, err := registrar.List()
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	kindFilter := normalizeKind(artifactsKind)
	if kindFilter != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Kind == kindFilter {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if len(entries) == 0 {
		fmt.Printf("No artifacts registered in %s\n", registrar.Path())
		return nil
	}

	fmt.Printf("%d artifacts (%s)\n\n", len(entries), registrar.Path())
	fmt.Printf("%-10s %-10s %-36s %-10s %s\n", "KIND", "SIZE", "RUN", "CREATED", "PATH")
	for _, e := range entries {
		fmt.Printf("%-10s %-10s %-36s %-10s %s\n",
			strings.TrimPrefix(e.Kind, "/"),
			formatSize(e.SizeBytes),
			orDash(e.RunID),
			e.CreatedAt.Format("Jan 02"),
			e.Path)
	}
	return nil
}

// normalizeKind maps user input to the manifest's slash-prefixed kinds.
func normalizeKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "":
		return ""
	case "image", artifact.KindImage:
		return artifact.KindImage
	case "report", artifact.KindReport:
		return artifact.KindReport
	default:
		return strings.TrimSpace(kind)
	}
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
