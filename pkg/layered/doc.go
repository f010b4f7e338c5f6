// Package layered resolves interactive node drags in a layered diagram
// layout into persistable layout constraints.
//
// When the user releases a dragged node, its geometric drop position has to
// be reconciled with the discrete structure of the layout: which layer band
// the point falls into, where in that layer's ordering the node would sit,
// and whether pins placed on other nodes in earlier interactions shift or
// outright forbid the move. [Resolve] runs those steps in order and
// produces one [Action]:
//
//   - [SetLayerConstraintAction] when only the layer should be pinned,
//   - [SetPositionConstraintAction] when only the in-layer position moved,
//   - [SetStaticConstraintAction] when both are pinned,
//   - [RefreshAction] when nothing changed or the move conflicts with an
//     existing pin (the client snaps the node back).
//
// All computations are pure functions over one hierarchy level of the
// model; the dragged node's transient shadow position is used throughout,
// since the move has not been committed yet. Sending the resulting action
// to the layout server is the caller's job.
package layered
