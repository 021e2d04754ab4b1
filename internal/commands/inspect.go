package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmt2csv/internal/columns"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/pipeline"
	"github.com/cleared-dev/stmt2csv/internal/reconcile"
)

func newInspectCommand() *cobra.Command {
	var layoutPath string
	var all bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show fragment positions, column assignment and counts for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPipeline(layoutPath)
			if err != nil {
				return err
			}
			doc, err := layout.DefaultRegistry().Open(args[0])
			if err != nil {
				return err
			}
			return runInspect(cmd.OutOrStdout(), p, doc, all)
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "layout YAML file (default: built-in OCBC layout)")
	cmd.Flags().BoolVar(&all, "all", false, "also list fragments outside every column")

	return cmd
}

func runInspect(w io.Writer, p *pipeline.Pipeline, doc *layout.Document, all bool) error {
	frags := doc.Fragments()
	columns.SortByY(frags)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Y\tX\tCOLUMN\tTEXT")
	for _, f := range frags {
		col, ok := p.Classifier().Classify(f)
		if !ok && !all {
			continue
		}
		name := string(col)
		if !ok {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%q\n", f.Y, f.X, name, f.Text)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	res, err := p.Run(doc)
	if res != nil {
		fmt.Fprintf(w, "\ncounts: %s\n", res.Counts)
		for i, b := range res.Blocks {
			fmt.Fprintf(w, "block %d (line %d): %s\n", i+1, b.Index+1, b.Header())
		}
	}

	var verr reconcile.ValidationError
	var merr reconcile.MalformedAmountError
	switch {
	case err == nil:
		fmt.Fprintf(w, "result: %d transactions\n", len(res.Transactions))
	case errors.As(err, &verr), errors.As(err, &merr):
		fmt.Fprintf(w, "result: %v\n", err)
	default:
		return err
	}
	return nil
}
