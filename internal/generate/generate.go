// Package generate runs a full extraction: load the registry, apply the passes,
// render the format lines and compare them against the checklist.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/glformats/internal/cachemanager"
	"github.com/zjrosen/glformats/internal/formats"
	"github.com/zjrosen/glformats/internal/glxml"
	"github.com/zjrosen/glformats/internal/log"
	"github.com/zjrosen/glformats/internal/tracing"
)

// ErrMissingFormats is returned by Report.Strict when checklist formats are absent.
var ErrMissingFormats = errors.New("expected formats not found")

// DocumentCache stores parsed registries keyed by path, size and modification time.
type DocumentCache = cachemanager.CacheManager[string, *glxml.Document]

// NewDocumentCache returns an in-memory DocumentCache.
func NewDocumentCache(ttl time.Duration) DocumentCache {
	return cachemanager.NewInMemoryCacheManager[string, *glxml.Document]("registry", ttl, cachemanager.DefaultCleanupInterval)
}

// Options configures a Generator.
type Options struct {
	RegistryPath string
	// Passes defaults to formats.DefaultPasses.
	Passes []formats.Pass
	// Checklist defaults to formats.DefaultChecklist.
	Checklist []string
	Render    formats.RenderOptions

	// Cache, when set, reuses parsed registries across runs.
	Cache    DocumentCache
	CacheTTL time.Duration

	// Tracer defaults to a no-op tracer.
	Tracer trace.Tracer
}

// Report is the outcome of one run.
type Report struct {
	RunID    string
	CacheHit bool
	Result   *formats.Result
	Output   string
	Missing  []string
}

// Strict returns ErrMissingFormats listing the missing checklist formats, if any.
func (r *Report) Strict() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingFormats, strings.Join(r.Missing, ", "))
}

// Diagnostics returns the advisory lines for the run: one per missing format,
// one per dropped value collision, then the completion marker.
func (r *Report) Diagnostics() []string {
	var collisions []formats.Collision
	if r.Result != nil {
		collisions = r.Result.Collisions
	}
	lines := make([]string, 0, len(r.Missing)+len(collisions)+1)
	for _, name := range r.Missing {
		lines = append(lines, "Failed to locate "+name)
	}
	for _, c := range collisions {
		lines = append(lines, fmt.Sprintf("Collision in pass %s: %s = %s dropped, already held by %s",
			c.Pass, c.Name, formats.FormatValue(c.Value), c.Kept))
	}
	return append(lines, "done")
}

// Generator runs extractions. A Generator is not safe for concurrent use.
type Generator struct {
	opts   Options
	tracer trace.Tracer
	loader *cachemanager.ReadThroughCache[string, *glxml.Document, string]
	parsed bool
}

// New returns a Generator for opts.
func New(opts Options) *Generator {
	if opts.Passes == nil {
		opts.Passes = formats.DefaultPasses()
	}
	if opts.Checklist == nil {
		opts.Checklist = formats.DefaultChecklist()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	g := &Generator{opts: opts, tracer: tracer}

	parse := func(_ context.Context, path string) (*glxml.Document, error) {
		g.parsed = true
		return glxml.ParseFile(path)
	}
	cache := opts.Cache
	if cache == nil {
		g.loader = cachemanager.NewReadThroughCache[string, *glxml.Document, string](nil, parse, true)
	} else {
		g.loader = cachemanager.NewReadThroughCache(cache, parse, false)
	}
	return g
}

// Run performs one extraction.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}

	ctx, span := g.tracer.Start(ctx, tracing.SpanGenerate, trace.WithAttributes(
		attribute.String(tracing.AttrRunID, report.RunID),
		attribute.String(tracing.AttrRegistryPath, g.opts.RegistryPath),
	))
	defer span.End()

	log.Info(log.CatRegistry, "generation started", "run", report.RunID, "registry", g.opts.RegistryPath)

	doc, hit, err := g.load(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatRegistry, "loading registry failed", err, "run", report.RunID)
		return nil, err
	}
	report.CacheHit = hit

	result, err := g.classify(ctx, doc, report.RunID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatClassify, "classification failed", err, "run", report.RunID)
		return nil, err
	}
	report.Result = result

	_, renderSpan := g.tracer.Start(ctx, tracing.SpanRender)
	report.Output, err = formats.Render(result, g.opts.Render)
	renderSpan.End()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("rendering formats: %w", err)
	}

	report.Missing = result.Missing(g.opts.Checklist)
	for _, name := range report.Missing {
		log.Warn(log.CatClassify, "expected format not found", "run", report.RunID, "name", name)
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrFormats, len(result.Formats)),
		attribute.StringSlice(tracing.AttrMissing, report.Missing),
	)
	log.Info(log.CatEmit, "generation finished", "run", report.RunID,
		"formats", len(result.Formats), "missing", len(report.Missing), "collisions", len(result.Collisions))
	return report, nil
}

func (g *Generator) load(ctx context.Context) (*glxml.Document, bool, error) {
	_, span := g.tracer.Start(ctx, tracing.SpanLoad)
	defer span.End()

	key, err := cacheKey(g.opts.RegistryPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	g.parsed = false
	doc, err := g.loader.Get(ctx, key, g.opts.RegistryPath, g.opts.CacheTTL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	hit := !g.parsed
	span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, hit))
	log.Debug(log.CatRegistry, "registry loaded", "path", g.opts.RegistryPath, "cache_hit", hit)
	return doc, hit, nil
}

func (g *Generator) classify(ctx context.Context, doc *glxml.Document, runID string) (*formats.Result, error) {
	c := formats.NewClassifier(doc)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrRemoved, c.Deprecated().Len()))

	for _, p := range g.opts.Passes {
		_, span := g.tracer.Start(ctx, tracing.SpanPass+p.Name, trace.WithAttributes(
			attribute.String(tracing.AttrPassName, p.Name),
			attribute.String(tracing.AttrPassKind, string(p.Kind)),
		))

		res, err := c.Apply(p)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return nil, fmt.Errorf("pass %s: %w", p.Name, err)
		}

		for _, col := range res.Collisions {
			log.Warn(log.CatClassify, "value collision dropped", "run", runID, "pass", col.Pass,
				"name", col.Name, "value", formats.FormatValue(col.Value), "kept", col.Kept)
			span.AddEvent(tracing.EventCollision, trace.WithAttributes(
				attribute.String("name", col.Name),
				attribute.String("kept", col.Kept),
				attribute.String("value", formats.FormatValue(col.Value)),
			))
		}
		span.SetAttributes(
			attribute.Int(tracing.AttrMatched, res.Matched),
			attribute.Int(tracing.AttrCommitted, len(res.Committed)),
			attribute.Int(tracing.AttrAppended, len(res.Appended)),
		)
		span.End()

		log.Debug(log.CatClassify, "pass applied", "run", runID, "pass", p.Name, "kind", p.Kind,
			"matched", res.Matched, "committed", len(res.Committed), "appended", len(res.Appended))
	}
	return c.Result(), nil
}

// cacheKey identifies a registry file revision.
func cacheKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("opening registry: %w", err)
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()), nil
}

// WriteOutput writes content to path, creating parent directories.
func WriteOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // G306: generated source is world-readable
		return fmt.Errorf("writing output: %w", err)
	}
	log.Info(log.CatEmit, "output written", "path", path, "bytes", len(content))
	return nil
}
