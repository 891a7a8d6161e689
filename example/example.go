// Package example shows the minimal sequence a caller wires together to go
// from a classpath to query results: classpath.Resolver resolves roots,
// scan.Driver scans them into a cgraph.ScanResult, and query.Query reads it
// back out. It is a library-usage example, not a command-line front end --
// there is no main package here and nothing reads os.Args or flags.
package example

import (
	"context"
	"log/slog"

	"github.com/viant/cpgraph/archive"
	"github.com/viant/cpgraph/classfile"
	"github.com/viant/cpgraph/classpath"
	"github.com/viant/cpgraph/cpconfig"
	"github.com/viant/cpgraph/query"
	"github.com/viant/cpgraph/scan"
	"github.com/viant/cpgraph/scanfilter"
	"github.com/viant/cpgraph/scanlog"
)

// Scan resolves the classpath described by cfg, scans every resolved root,
// and returns a query.Query over the result along with every recoverable
// warning the scan produced. The returned Query is safe to share across
// goroutines: the underlying ScanResult is frozen.
func Scan(ctx context.Context, cfg *cpconfig.Config, logger *slog.Logger) (*query.Query, []scanlog.Warning, error) {
	ctx, warnings := scanlog.NewContext(ctx, logger)

	archives, err := archive.NewHandler(archive.WithMemoryMapping(cfg.EnableMemoryMapping))
	if err != nil {
		return nil, nil, err
	}

	resolver := classpath.NewResolver(
		classpath.WithArchiveHandler(archives),
		classpath.WithExcludeSystemArchives(cfg.ExcludeSystemArchives),
		classpath.WithJDKRoots(cfg.JDKRoots...),
	)

	var sources []classpath.Source
	if cfg.ClasspathOverride != "" {
		sources = append(sources, classpath.OverrideSource{Value: cfg.ClasspathOverride})
	} else {
		sources = append(sources, classpath.EnvSource{})
	}

	roots, err := resolver.Resolve(ctx, sources...)
	if err != nil {
		return nil, nil, err
	}

	filter := scanfilter.New(
		scanfilter.WithIncludePackages(cfg.IncludePackages...),
		scanfilter.WithExcludePackages(cfg.ExcludePackages...),
		scanfilter.WithIncludeClasses(cfg.IncludeClasses...),
		scanfilter.WithExcludeClasses(cfg.ExcludeClasses...),
	)

	driver, err := scan.NewDriver(
		scan.WithArchiveHandler(archives),
		scan.WithMemoryMapping(cfg.EnableMemoryMapping),
		scan.WithWorkerCount(cfg.ResolvedWorkerCount()),
		scan.WithFilter(filter),
		scan.WithRetainExternalReferences(cfg.RetainExternalReferences),
		scan.WithParseOptions(classfile.ParseOptions{
			EnableFieldInfo:            cfg.EnableFieldInfo,
			EnableMethodInfo:           cfg.EnableMethodInfo,
			EnableAnnotationInfo:       cfg.EnableAnnotationInfo,
			EnableStaticFinalConstants: cfg.EnableStaticFinalConstants,
		}),
	)
	if err != nil {
		return nil, nil, err
	}

	result, err := driver.Scan(ctx, roots)
	if err != nil {
		return nil, warnings.Warnings(), err
	}
	return query.New(result), warnings.Warnings(), nil
}
