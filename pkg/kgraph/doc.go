// Package kgraph defines the diagram model consumed by the fold engine and
// the constraint resolver: a tree of positioned, sized nodes carrying typed
// graphical descriptors, plus a flat JSON serialization format.
//
// # Model
//
// A diagram is a tree of [Node] values under a synthetic root ([RootNodeID]).
// Each node exposes position, size, children, a non-owning parent pointer,
// and a list of [Rendering] descriptors. The descriptors are inspected only
// structurally here, through [IsRegionBoundary]; drawing them is the
// renderer's concern.
//
// Nodes in layered layouts additionally carry layer/position ids and
// constraints as reported by the layout server, all defaulting to [Unset].
//
// # Serialization
//
// [Model] flattens the tree into sorted node and edge lists with parent
// references, suitable for files, API payloads, and document stores:
//
//	{
//	  "nodes": [
//	    {"id": "A", "width": 80, "height": 40,
//	     "data": [{"kind": "rectangle", "children": [{"kind": "childArea"}]}]},
//	    {"id": "A1", "parent": "A", "x": 10, "y": 10, "width": 30, "height": 20}
//	  ],
//	  "edges": [{"from": "A", "to": "A1"}]
//	}
//
// Round trips are lossless for everything the fold engine and resolver
// consume; transient drag state (shadow positions) is deliberately not
// serialized.
package kgraph
