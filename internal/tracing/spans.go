package tracing

// Span names.
const (
	SpanGenerate = "glformats.generate"
	SpanLoad     = "registry.load"
	SpanPass     = "classify.pass."
	SpanRender   = "emit.render"
)

// Span attribute keys.
const (
	AttrRunID        = "run.id"
	AttrRegistryPath = "registry.path"
	AttrCacheHit     = "registry.cache_hit"
	AttrRemoved      = "registry.removed"
	AttrPassName     = "pass.name"
	AttrPassKind     = "pass.kind"
	AttrMatched      = "pass.matched"
	AttrCommitted    = "pass.committed"
	AttrAppended     = "pass.appended"
	AttrFormats      = "formats.count"
	AttrMissing      = "formats.missing"
)

// Event names.
const (
	EventCollision = "value.collision"
)
