package commands

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmt2csv/internal/buildinfo"
	"github.com/cleared-dev/stmt2csv/internal/config"
	"github.com/cleared-dev/stmt2csv/internal/pipeline"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stmt2csv",
		Short:   "Reconstruct bank statement transactions from positioned text",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newLayoutCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

// newLogger returns a text logger writing to w.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadPipeline builds a pipeline from the layout file at path, or from the
// built-in layout when path is empty.
func loadPipeline(path string) (*pipeline.Pipeline, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	return pipeline.New(cfg)
}
