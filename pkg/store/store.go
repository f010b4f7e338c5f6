// Package store persists resolved layout constraints per diagram model.
//
// Constraint actions produced by the resolver are flattened into
// [ConstraintRecord] values and kept as one [ConstraintSet] document per
// model, so a reopened editor can replay the user's pins before asking the
// layout server for a fresh layout.
//
// The [Store] interface has four backends:
//   - memory: for tests and throwaway sessions
//   - file: JSON files under a directory, for CLI usage
//   - redis: for multi-instance sidecar deployments
//   - mongo: document storage when constraint sets should outlive a cache
//
// All backends share the same semantics: Get returns (nil, nil) for an
// absent set, Put replaces the whole document, Delete of an absent set is
// not an error.
package store

import (
	"context"
	"time"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/layered"
)

// ConstraintRecord is one persisted constraint. Unused fields for the kind
// (e.g. position fields of a layer-only pin) are zero.
type ConstraintRecord struct {
	NodeID    string `json:"node_id" bson:"node_id"`
	Kind      string `json:"kind" bson:"kind"`
	Layer     int    `json:"layer,omitempty" bson:"layer,omitempty"`
	LayerCons int    `json:"layer_cons,omitempty" bson:"layer_cons,omitempty"`
	Position  int    `json:"position,omitempty" bson:"position,omitempty"`
	PosCons   int    `json:"pos_cons,omitempty" bson:"pos_cons,omitempty"`
}

// ConstraintSet is the stored document: every live constraint of one model.
type ConstraintSet struct {
	ModelID   string             `json:"model_id" bson:"model_id"`
	Records   []ConstraintRecord `json:"records" bson:"records"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Apply merges a resolved action into the set, replacing any previous
// constraint of the same node. Refresh actions leave the set unchanged.
func (cs *ConstraintSet) Apply(a layered.Action) {
	var rec ConstraintRecord
	switch v := a.(type) {
	case layered.SetLayerConstraintAction:
		rec = ConstraintRecord{NodeID: v.ID, Kind: v.Kind(), Layer: v.Layer, LayerCons: v.LayerCons}
	case layered.SetPositionConstraintAction:
		rec = ConstraintRecord{NodeID: v.ID, Kind: v.Kind(), Position: v.Position, PosCons: v.PosCons}
	case layered.SetStaticConstraintAction:
		rec = ConstraintRecord{
			NodeID: v.ID, Kind: v.Kind(),
			Layer: v.Layer, LayerCons: v.LayerCons,
			Position: v.Position, PosCons: v.PosCons,
		}
	default:
		return
	}
	for i, r := range cs.Records {
		if r.NodeID == rec.NodeID {
			cs.Records[i] = rec
			return
		}
	}
	cs.Records = append(cs.Records, rec)
}

// Store is the interface for constraint-set storage backends.
type Store interface {
	// Get retrieves the constraint set for a model.
	// Returns nil, nil if no set has been stored.
	Get(ctx context.Context, modelID string) (*ConstraintSet, error)

	// Put stores a constraint set, replacing any previous one.
	Put(ctx context.Context, cs *ConstraintSet) error

	// Delete removes a model's constraint set. Absent sets are not an error.
	Delete(ctx context.Context, modelID string) error

	// Close releases backend resources.
	Close() error
}

func validateSet(cs *ConstraintSet) error {
	if cs == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil constraint set")
	}
	return errors.ValidateModelID(cs.ModelID)
}
