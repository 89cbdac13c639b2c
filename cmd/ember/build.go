package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ember/internal/diagfmt"
	"ember/internal/meta"
	"ember/internal/pipeline"
	"ember/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [unit.mp|directory ...]",
	Short: "Process unit payloads and write the rewritten units",
	Long:  `Run the binary-surface pass and write processed payloads: updated visibilities, synthesized accessors and rewritten inline bodies`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("out", "ember-out", "output directory for processed payloads")
	buildCmd.Flags().Bool("strict", false, "treat ad-hoc accessor warnings as errors")
	buildCmd.Flags().Bool("disk-cache", false, "skip units whose inputs are unchanged since the last run")
	buildCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	buildCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runBuild(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	strict, _ := cmd.Flags().GetBool("strict")
	useCache, _ := cmd.Flags().GetBool("disk-cache")
	uiFlag, _ := cmd.Flags().GetString("ui")
	jobs, _ := cmd.Flags().GetInt("jobs")
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	colorFlag, _ := cmd.Flags().GetString("color")
	showTimings, _ := cmd.Flags().GetBool("timings")

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	paths, manifest, err := resolveUnitPaths(args)
	if err != nil {
		return err
	}
	if manifest != nil {
		if manifest.Config.Advisor.Strict {
			strict = true
		}
		if manifest.Config.Build.Out != "" && !cmd.Flags().Changed("out") {
			outDir = manifest.Config.Build.Out
		}
		if manifest.Config.Build.Jobs > 0 && !cmd.Flags().Changed("jobs") {
			jobs = manifest.Config.Build.Jobs
		}
	}

	opts := pipeline.Options{
		Strict:         strict,
		MaxDiagnostics: maxDiags,
		OutDir:         outDir,
	}
	if useCache {
		cache, err := meta.OpenDiskCache("ember")
		if err != nil {
			return err
		}
		opts.Cache = cache
	}

	var results []*pipeline.UnitResult
	if shouldUseTUI(mode) && len(paths) > 1 {
		results, err = runBuildWithProgress(cmd, paths, jobs, opts)
	} else {
		results, err = pipeline.ProcessUnits(cmd.Context(), paths, jobs, opts)
	}
	if err != nil {
		return err
	}

	hasErrors := false
	for _, res := range results {
		if res.Bag != nil && res.Bag.Len() > 0 {
			diagfmt.Pretty(cmd.OutOrStdout(), res.Bag, res.Files, diagfmt.PrettyOpts{
				Color:     colorEnabled(colorFlag),
				ShowNotes: withNotes,
			})
		}
		if showTimings {
			fmt.Fprintf(os.Stderr, "%s:\n%s", res.Path, timingSummary(res))
		}
		if res.Bag != nil && res.Bag.HasErrors() {
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("build finished with errors")
	}
	return nil
}

func runBuildWithProgress(cmd *cobra.Command, paths []string, jobs int, opts pipeline.Options) ([]*pipeline.UnitResult, error) {
	events := make(chan pipeline.Event, 64)
	opts.Sink = pipeline.ChannelSink{Ch: events}

	type outcome struct {
		results []*pipeline.UnitResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := pipeline.ProcessUnits(cmd.Context(), paths, jobs, opts)
		close(events)
		done <- outcome{results: results, err: err}
	}()

	model := ui.NewProgressModel("processing units", paths, events)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		// Fall back to plain output, the pipeline keeps running.
		fmt.Fprintf(os.Stderr, "progress ui failed: %v\n", err)
	}
	out := <-done
	return out.results, out.err
}
