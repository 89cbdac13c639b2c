package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/binapi"
	"ember/internal/decl"
	"ember/internal/meta"
	"ember/internal/pipeline"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <unit.mp>",
	Short: "Inspect a unit payload",
	Long:  `Print a unit's declaration table; with --processed, run the pass first and include synthesized accessors and rewrite decisions`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("processed", false, "run the pass before dumping")
	dumpCmd.Flags().Bool("decisions", false, "list rewrite decisions (implies --processed)")
}

func runDump(cmd *cobra.Command, args []string) error {
	processed, _ := cmd.Flags().GetBool("processed")
	decisions, _ := cmd.Flags().GetBool("decisions")
	if decisions {
		processed = true
	}
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	out := cmd.OutOrStdout()

	if !processed {
		payload, err := meta.LoadPayload(args[0])
		if err != nil {
			return err
		}
		unit, err := meta.Materialize(payload, nil)
		if err != nil {
			return err
		}
		dumpTable(out, unit.Table)
		fmt.Fprintf(out, "inline bodies: %d\n", len(unit.Bodies))
		return nil
	}

	opts := pipeline.Options{MaxDiagnostics: maxDiags}
	res, err := opts.ProcessUnit(args[0])
	if err != nil {
		return err
	}
	payload := res.Payload
	unit, err := meta.Materialize(payload, nil)
	if err != nil {
		return err
	}
	dumpTable(out, unit.Table)

	fmt.Fprintf(out, "accessors: %d\n", len(payload.Accessors))
	for _, acc := range payload.Accessors {
		fmt.Fprintf(out, "  %s -> %s (%s)\n",
			acc.Name, unit.Table.FullName(decl.DeclID(acc.Target)), binapi.Reason(acc.Reason))
	}
	if decisions {
		fmt.Fprintf(out, "decisions: %d\n", len(res.Decisions))
		for _, d := range res.Decisions {
			fmt.Fprintf(out, "  %s: %s\n", d.Kind, res.Payload.Decls[d.Target-1].Name)
		}
	}
	return nil
}

func dumpTable(out io.Writer, t *decl.Table) {
	fmt.Fprintf(out, "classes: %d\n", t.Classes.Len())
	for i, cls := range t.Classes.Data() {
		id := decl.ClassID(i + 1)
		origin := "local"
		if !cls.Local {
			origin = "foreign"
		}
		fmt.Fprintf(out, "  %s (%s)\n", t.ClassPath(id), origin)
		for _, dID := range cls.Decls {
			d := t.Decl(dID)
			marker := ""
			if d.Synthetic {
				marker = " [accessor]"
			}
			annots := d.Annots.Strings()
			annotStr := ""
			if len(annots) > 0 {
				annotStr = " @" + strings.Join(annots, " @")
			}
			fmt.Fprintf(out, "    %s %s %s%s%s\n", d.Vis, d.Kind, t.DeclName(dID), annotStr, marker)
		}
	}
}
