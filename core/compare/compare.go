// Package compare runs the detector over every exported symbol of two
// snapshots of a package.
package compare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/detector"
	"github.com/emenda-labs/declguard/core/diffspec"
)

type config struct {
	concurrency       int
	logger            *slog.Logger
	interfaceMatchers map[string]detector.SignatureMatcher
}

// Option configures Run.
type Option func(*config)

// WithConcurrency bounds the number of symbols compared at once. Values
// below one are ignored.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-symbol failures and the run
// summary.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInterfaceMatcher pairs the call signatures of the named interface with
// m instead of the default shape matcher. The check command's
// --route-interface flag installs a detector.FirstParameterMatcher this way.
func WithInterfaceMatcher(name string, m detector.SignatureMatcher) Option {
	return func(c *config) {
		if c.interfaceMatchers == nil {
			c.interfaceMatchers = make(map[string]detector.SignatureMatcher)
		}
		c.interfaceMatchers[name] = m
	}
}

type symbol struct {
	kind decl.Kind
	name string
}

// Run compares every symbol exported by either snapshot. A symbol whose
// comparison fails is recorded with its error and does not stop the run.
// Symbols are reported by kind, then by name.
func Run(ctx context.Context, baseline, current decl.Snapshot, det *detector.Detector, opts ...Option) (diffspec.Report, error) {
	if baseline == nil || current == nil {
		return diffspec.Report{}, errors.New("compare: both snapshots are required")
	}
	if det == nil {
		return diffspec.Report{}, errors.New("compare: detector is required")
	}

	cfg := config{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	pkg := current.Package()
	if pkg == "" {
		pkg = baseline.Package()
	}
	report := diffspec.Report{
		Package:         pkg,
		BaselineVersion: baseline.Version(),
		CurrentVersion:  current.Version(),
	}

	symbols := enumerate(baseline, current)
	results := make([]diffspec.SymbolDiff, len(symbols))
	start := time.Now()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, sym := range symbols {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = compareSymbol(det, &cfg, baseline, current, sym)
			if err := results[i].Err; err != nil {
				cfg.logger.Warn("symbol comparison failed",
					slog.String("package", pkg),
					slog.String("kind", sym.kind.String()),
					slog.String("name", sym.name),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return diffspec.Report{}, fmt.Errorf("comparing %s: %w", pkg, err)
	}

	report.Symbols = results
	cfg.logger.Debug("comparison finished",
		slog.String("package", pkg),
		slog.String("baseline", report.BaselineVersion),
		slog.String("current", report.CurrentVersion),
		slog.Int("symbols", len(symbols)),
		slog.Int("breaking", len(report.Breaking())),
		slog.Int("failed", len(report.Failures())),
		slog.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

// enumerate returns the union of exported names per kind.
func enumerate(baseline, current decl.Snapshot) []symbol {
	var symbols []symbol
	for _, kind := range decl.TopLevelKinds {
		seen := make(map[string]bool)
		var names []string
		for _, s := range []decl.Snapshot{baseline, current} {
			for _, name := range s.Names(kind) {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		sort.Strings(names)
		for _, name := range names {
			symbols = append(symbols, symbol{kind: kind, name: name})
		}
	}
	return symbols
}

func compareSymbol(det *detector.Detector, cfg *config, baseline, current decl.Snapshot, sym symbol) diffspec.SymbolDiff {
	result := diffspec.SymbolDiff{Kind: sym.kind, Name: sym.name}
	location := detector.DeclarationLocation(sym.kind)

	b, inBaseline := baseline.Lookup(sym.kind, sym.name)
	c, inCurrent := current.Lookup(sym.kind, sym.name)

	switch {
	case inBaseline && !inCurrent:
		if pair, ok := detector.CheckRemovedDeclaration(location, b, nil, diffspec.DirectionCurrentToBaseline); ok {
			result.Pairs = []diffspec.DiffPair{pair}
		}
		return result
	case !inBaseline && inCurrent:
		if pair, ok := detector.CheckAddedDeclaration(location, nil, c, diffspec.DirectionCurrentToBaseline); ok {
			result.Pairs = []diffspec.DiffPair{pair}
		}
		return result
	case !inBaseline && !inCurrent:
		return result
	}

	var (
		pairs []diffspec.DiffPair
		err   error
	)
	switch sym.kind {
	case decl.KindInterface:
		var opts []detector.CompareOption
		if m, ok := cfg.interfaceMatchers[sym.name]; ok {
			opts = append(opts, detector.WithSignatureMatcher(m))
		}
		pairs, err = det.CompareInterfaces(b, c, opts...)
	case decl.KindClass:
		pairs, err = det.CompareClasses(b, c)
	case decl.KindFunction:
		pairs, err = det.CompareFunctions(b, c)
	case decl.KindTypeAlias:
		pairs, err = det.CompareTypeAliases(b, c)
	case decl.KindEnum:
		pairs, err = det.CompareEnums(b, c)
	default:
		err = fmt.Errorf("%w: %s", detector.ErrUnsupportedDeclaration, sym.kind)
	}
	if err != nil {
		result.Err = err
		return result
	}
	result.Pairs = pairs
	return result
}
