// Package trace records what the spn tools are doing while they run.
//
// Events are spans (begin/end pairs) and points, grouped by scope:
//
//   - ScopeDriver: one CLI command or directory check
//   - ScopePass: scan, parse, format, fix
//   - ScopeFile: work on a single manifest
//
// The level picks how deep the trace goes:
//
//	spn check --trace=- --trace-level=detail ./manifests
//
// Tracers travel through the driver in a context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer sp.End("")
package trace
