package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmt2csv/internal/config"
)

const defaultLayoutFile = "layout.yaml"

func newLayoutCommand() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage column layout files",
	}
	layoutCmd.AddCommand(newLayoutInitCommand())
	layoutCmd.AddCommand(newLayoutCheckCommand())
	return layoutCmd
}

func newLayoutInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in layout to a YAML file for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultLayoutFile
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote layout to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func newLayoutCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: layout %q ok (%d columns)\n", args[0], cfg.Name, len(cfg.Columns))
			return nil
		},
	}
}
