package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/declguard/core/diffspec"
)

// CheckOptions holds the parsed flags for "check".
type CheckOptions struct {
	Baseline        string
	BaselineVersion string
	Package         string
	Current         string
	CurrentVersion  string
	Include         []string
	RouteInterfaces []string

	AnyCheck           bool
	RequiredToOptional bool
	OptionalToRequired bool

	Concurrency    int
	SkipFailures   bool
	FailOnBreaking bool
	Verbose        bool
}

// DetectorOptions maps the classification flags onto detector options.
func (o CheckOptions) DetectorOptions() diffspec.Options {
	return diffspec.Options{
		ConcreteTypeToAnyAsBreakingChange:  o.AnyCheck,
		RequiredToOptionalAsBreakingChange: o.RequiredToOptional,
		OptionalToRequiredAsBreakingChange: o.OptionalToRequired,
	}
}

// CheckRunFunc is the function signature for the check command handler.
// It is injected by the wiring layer (cmd/declguard/main.go).
type CheckRunFunc func(ctx context.Context, opts CheckOptions) error

// NewCheckCmd creates the "check" subcommand.
func NewCheckCmd(runFunc CheckRunFunc) *cobra.Command {
	var opts CheckOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report breaking changes between a baseline and the current surface",
		Long: "Compare the current declaration snapshot against a baseline, read from a file or " +
			"downloaded from the snapshot store, and report breaking changes.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateCheckFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Baseline, "baseline", "", "Path to the baseline snapshot (.yaml, .yml, .zip or directory)")
	cmd.Flags().StringVar(&opts.BaselineVersion, "baseline-version", "", "Published baseline version to download from the snapshot store")
	cmd.Flags().StringVar(&opts.Package, "package", "", "Package name, required with --baseline-version")
	cmd.Flags().StringVar(&opts.Current, "current", "", "Path to the current snapshot (required)")
	cmd.Flags().StringVar(&opts.CurrentVersion, "current-version", "", "Version being released, overrides the snapshot's version")
	cmd.Flags().StringSliceVar(&opts.Include, "include", nil, "Glob patterns selecting snapshot documents in bundles and directories (default **/*.{yaml,yml})")
	cmd.Flags().StringSliceVar(&opts.RouteInterfaces, "route-interface", nil, "Interfaces whose call signatures are paired by their first parameter type")
	cmd.Flags().BoolVar(&opts.AnyCheck, "any-check", true, "Report concrete types replaced by any")
	cmd.Flags().BoolVar(&opts.RequiredToOptional, "required-to-optional", true, "Report required-to-optional transitions")
	cmd.Flags().BoolVar(&opts.OptionalToRequired, "optional-to-required", true, "Report optional-to-required transitions")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Symbols compared in parallel (0 uses all CPUs)")
	cmd.Flags().BoolVar(&opts.SkipFailures, "skip-failures", false, "Do not fail when a symbol cannot be compared")
	cmd.Flags().BoolVar(&opts.FailOnBreaking, "fail-on-breaking", true, "Exit with an error when breaking changes are found")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log debug output")

	cmd.MarkFlagRequired("current")

	return cmd
}

func validateCheckFlags(opts CheckOptions) error {
	if opts.Current == "" {
		return fmt.Errorf("--current is required")
	}
	if _, err := os.Stat(opts.Current); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("current snapshot does not exist: %s", opts.Current)
		}
		return fmt.Errorf("cannot access current snapshot: %w", err)
	}

	switch {
	case opts.Baseline != "" && opts.BaselineVersion != "":
		return fmt.Errorf("--baseline and --baseline-version are mutually exclusive")
	case opts.Baseline == "" && opts.BaselineVersion == "":
		return fmt.Errorf("one of --baseline or --baseline-version is required")
	case opts.BaselineVersion != "" && opts.Package == "":
		return fmt.Errorf("--package is required with --baseline-version")
	}

	if opts.Baseline != "" {
		if _, err := os.Stat(opts.Baseline); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("baseline snapshot does not exist: %s", opts.Baseline)
			}
			return fmt.Errorf("cannot access baseline snapshot: %w", err)
		}
	}

	if opts.Concurrency < 0 {
		return fmt.Errorf("--concurrency must not be negative")
	}

	return nil
}
