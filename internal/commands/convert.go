package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmt2csv/internal/batch"
	"github.com/cleared-dev/stmt2csv/internal/layout"
	"github.com/cleared-dev/stmt2csv/internal/sink"
)

func newConvertCommand() *cobra.Command {
	var (
		layoutPath string
		format     string
		outDir     string
		scanDir    string
		logPath    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert statement documents to CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := sink.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := loadPipeline(layoutPath)
			if err != nil {
				return err
			}

			sources := layout.DefaultRegistry()
			paths := append([]string(nil), args...)
			if scanDir != "" {
				files, err := sources.Scan(scanDir)
				if err != nil {
					return err
				}
				for _, fi := range files {
					paths = append(paths, fi.Path)
				}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no documents to convert")
			}

			log := newLogger(cmd.ErrOrStderr(), verbose)
			runner := batch.NewRunner(p, sources, batch.Options{
				Format:  f,
				OutDir:  outDir,
				LogPath: logPath,
			}, log)

			results := runner.Run(paths)
			out := cmd.OutOrStdout()
			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", res.Document, res.Err)
					continue
				}
				fmt.Fprintf(out, "ok   %s -> %s (%d records)\n", res.Document, res.Output, res.Records)
			}

			if n := batch.Failed(results); n > 0 {
				return fmt.Errorf("%d of %d documents failed", n, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "layout YAML file (default: built-in OCBC layout)")
	cmd.Flags().StringVar(&format, "format", string(sink.FormatCSV), "output format: csv or xlsx")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write outputs here instead of next to each input")
	cmd.Flags().StringVar(&scanDir, "dir", "", "also convert every supported document in this directory")
	cmd.Flags().StringVar(&logPath, "log", "", "append one CSV row per document to this run log")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return cmd
}
