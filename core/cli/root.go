package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level declguard command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "declguard",
		Short: "Breaking change detector for typed API surfaces",
		Long:  "declguard compares two versions of a package's exported declarations and reports breaking API changes before release.",
	}

	cmd.Version = version
	cmd.SilenceUsage = true

	return cmd
}
