// Package pkg provides the core libraries for foldview.
//
// # Overview
//
// Foldview keeps large nested diagrams readable: regions expand when the
// viewport gives them enough room and collapse to labeled placeholders when
// it does not, and node drags are translated into layered-layout
// constraints instead of raw coordinates. The pkg directory is organized
// around that flow:
//
//  1. [kgraph] - The diagram model: nodes, renderings, serialization
//  2. [fold] - The region tree and viewport-driven expand/collapse engine
//  3. [layered] - Layer bands and the drag-to-constraint resolver
//  4. [store] - Persistence of resolved constraints (memory/file/redis/mongo)
//  5. [render] - Graphviz debug visualizations of fold state and layering
//  6. [pipeline] - Orchestration shared by the CLI and the sidecar server
//
// # Architecture
//
// The typical data flow:
//
//	Diagram model (JSON)
//	         ↓
//	fold.Build → DepthMap ← viewport changes (ExpandCollapse)
//	         ↓
//	region states → renderer / sidecar API
//
//	drag release → layered.Resolve → constraint action → store
//
// Supporting packages: [errors] defines coded errors shared across the
// module, [observability] carries pluggable instrumentation hooks, and
// [buildinfo] exposes build-time version metadata.
package pkg
