package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/diagfmt"
	"ember/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [unit.mp|directory ...]",
	Short: "Run the binary-surface pass and report diagnostics",
	Long:  `Run promotion and inline-reference rewriting over unit payloads without writing output, reporting advisories, warnings and errors`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("strict", false, "treat ad-hoc accessor warnings as errors")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	strict, _ := cmd.Flags().GetBool("strict")
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	jobs, _ := cmd.Flags().GetInt("jobs")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	colorFlag, _ := cmd.Flags().GetString("color")
	showTimings, _ := cmd.Flags().GetBool("timings")

	paths, manifest, err := resolveUnitPaths(args)
	if err != nil {
		return err
	}
	if manifest != nil && manifest.Config.Advisor.Strict {
		strict = true
	}

	opts := pipeline.Options{
		Strict:         strict,
		MaxDiagnostics: maxDiags,
	}
	results, err := pipeline.ProcessUnits(cmd.Context(), paths, jobs, opts)
	if err != nil {
		return err
	}

	hasErrors := false
	for _, res := range results {
		if res.Bag == nil {
			continue
		}
		switch format {
		case "json":
			if err := diagfmt.JSON(cmd.OutOrStdout(), res.Bag, res.Files, diagfmt.JSONOpts{IncludeNotes: withNotes}); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(cmd.OutOrStdout(), res.Bag, res.Files, diagfmt.PrettyOpts{
				Color:     colorEnabled(colorFlag),
				ShowNotes: withNotes,
			})
		}
		if showTimings {
			fmt.Fprintf(os.Stderr, "%s:\n%s", res.Path, timingSummary(res))
		}
		if res.Bag.HasErrors() {
			hasErrors = true
		}
	}
	if hasErrors {
		os.Exit(1)
	}
	return nil
}

func timingSummary(res *pipeline.UnitResult) string {
	out := ""
	for _, p := range res.Timing.Phases {
		out += fmt.Sprintf("  %-10s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-10s %7.2f ms\n", "total", res.Timing.TotalMS)
	return out
}
