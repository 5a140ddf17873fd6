package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/emenda-labs/declguard/core/cli"
	"github.com/emenda-labs/declguard/core/compare"
	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/detector"
	"github.com/emenda-labs/declguard/drivers/snapshot"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCheck := func(ctx context.Context, opts cli.CheckOptions) error {
		provider, err := snapshot.NewDriver(nil, snapshot.WithDocumentPatterns(opts.Include...))
		if err != nil {
			return err
		}

		level := slog.LevelWarn
		if opts.Verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		current, err := provider.Load(ctx, opts.Current)
		if err != nil {
			return fmt.Errorf("loading current snapshot: %w", err)
		}

		var baseline decl.Snapshot
		if opts.Baseline != "" {
			baseline, err = provider.Load(ctx, opts.Baseline)
		} else {
			fmt.Fprintf(os.Stderr, "Downloading %s@%s...\n", opts.Package, opts.BaselineVersion)
			baseline, err = provider.Fetch(ctx, opts.Package, opts.BaselineVersion)
		}
		if err != nil {
			return fmt.Errorf("loading baseline snapshot: %w", err)
		}

		if current.Package() != "" && baseline.Package() != "" && current.Package() != baseline.Package() {
			fmt.Fprintf(os.Stderr, "warning: comparing different packages %s and %s\n", baseline.Package(), current.Package())
		}

		det := detector.New(provider.Checker(), opts.DetectorOptions())
		runOpts := []compare.Option{
			compare.WithConcurrency(opts.Concurrency),
			compare.WithLogger(logger),
		}
		for _, name := range opts.RouteInterfaces {
			runOpts = append(runOpts, compare.WithInterfaceMatcher(name, detector.FirstParameterMatcher{}))
		}
		report, err := compare.Run(ctx, baseline, current, det, runOpts...)
		if err != nil {
			return err
		}
		if opts.CurrentVersion != "" {
			report.CurrentVersion = opts.CurrentVersion
		}

		cli.PrintReport(os.Stdout, report)

		bump := compare.RequiredBump(report)
		fmt.Println()
		fmt.Printf("Required bump: %s\n", bump)

		var errs []error
		if failures := report.Failures(); len(failures) > 0 && !opts.SkipFailures {
			errs = append(errs, fmt.Errorf("%d symbol(s) could not be compared", len(failures)))
		}

		if report.BaselineVersion != "" && report.CurrentVersion != "" {
			if err := compare.CheckVersions(report.BaselineVersion, report.CurrentVersion, bump); err != nil {
				if opts.FailOnBreaking {
					errs = append(errs, err)
				} else {
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				}
			}
		} else if breaking := report.Breaking(); opts.FailOnBreaking && len(breaking) > 0 {
			errs = append(errs, fmt.Errorf("%d breaking change(s) found", len(breaking)))
		}

		return errors.Join(errs...)
	}

	root := cli.NewRootCmd(version)
	root.AddCommand(cli.NewCheckCmd(runCheck))

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
