// navtool inspects navigation graphs without loading any imagery.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "navtool",
		Short: "Inspect panorama navigation graphs",
	}

	root.AddCommand(infoCmd())
	root.AddCommand(navigableCmd())
	root.AddCommand(pathCmd())
	return root
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [graph-dir] [scan]",
		Short: "Show node, edge and line-of-sight counts for a scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func navigableCmd() *cobra.Command {
	var heading, vfov, aspect float64

	cmd := &cobra.Command{
		Use:   "navigable [graph-dir] [scan] [viewpoint]",
		Short: "List the viewpoints reachable from a viewpoint at a heading",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigable(cmd.OutOrStdout(), args[0], args[1], args[2], heading, vfov, aspect)
		},
	}

	cmd.Flags().Float64Var(&heading, "heading", 0, "Camera heading in radians, clockwise from +Y")
	cmd.Flags().Float64Var(&vfov, "vfov", 45, "Vertical field of view in degrees")
	cmd.Flags().Float64Var(&aspect, "aspect", 320.0/240.0, "Frame width divided by height")
	return cmd
}

func pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path [graph-dir] [scan] [from] [to]",
		Short: "Print the shortest walk between two viewpoints",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd.OutOrStdout(), args[0], args[1], args[2], args[3])
		},
	}
}
