package layered

import (
	"encoding/json"
	"fmt"
)

// Action kinds as they appear on the wire to the layout server.
const (
	KindSetLayerConstraint    = "setLayerConstraint"
	KindSetPositionConstraint = "setPositionConstraint"
	KindSetStaticConstraint   = "setStaticConstraint"
	KindRefresh               = "refreshDiagram"
)

// Action is the outcome of resolving a drag gesture: a constraint to
// persist on the layout server, or a refresh telling the client to snap the
// node back. Actions are plain data; this package never performs the
// transport.
type Action interface {
	Kind() string
}

// SetLayerConstraintAction pins the node to a layer without constraining
// its in-layer position. Layer is the index the node lands in; LayerCons is
// the constraint value after compensating for earlier pins.
type SetLayerConstraintAction struct {
	ID        string `json:"id" bson:"id"`
	Layer     int    `json:"layer" bson:"layer"`
	LayerCons int    `json:"layerCons" bson:"layer_cons"`
}

// Kind identifies the action on the wire.
func (SetLayerConstraintAction) Kind() string { return KindSetLayerConstraint }

// SetPositionConstraintAction pins the node's position within its current
// layer.
type SetPositionConstraintAction struct {
	ID       string `json:"id" bson:"id"`
	Position int    `json:"position" bson:"position"`
	PosCons  int    `json:"posCons" bson:"pos_cons"`
}

// Kind identifies the action on the wire.
func (SetPositionConstraintAction) Kind() string { return KindSetPositionConstraint }

// SetStaticConstraintAction pins both layer and in-layer position.
type SetStaticConstraintAction struct {
	ID        string `json:"id" bson:"id"`
	Layer     int    `json:"layer" bson:"layer"`
	LayerCons int    `json:"layerCons" bson:"layer_cons"`
	Position  int    `json:"position" bson:"position"`
	PosCons   int    `json:"posCons" bson:"pos_cons"`
}

// Kind identifies the action on the wire.
func (SetStaticConstraintAction) Kind() string { return KindSetStaticConstraint }

// RefreshAction persists nothing: the move was a no-op or would conflict
// with existing constraints, so the client redraws from the last committed
// layout.
type RefreshAction struct{}

// Kind identifies the action on the wire.
func (RefreshAction) Kind() string { return KindRefresh }

// actionEnvelope carries just the kind discriminator for a first decoding
// pass.
type actionEnvelope struct {
	Kind string `json:"kind"`
}

// MarshalAction encodes an action with its kind discriminator.
func MarshalAction(a Action) ([]byte, error) {
	switch v := a.(type) {
	case SetLayerConstraintAction:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			SetLayerConstraintAction
		}{v.Kind(), v})
	case SetPositionConstraintAction:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			SetPositionConstraintAction
		}{v.Kind(), v})
	case SetStaticConstraintAction:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			SetStaticConstraintAction
		}{v.Kind(), v})
	case RefreshAction:
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{v.Kind()})
	default:
		return nil, fmt.Errorf("unknown action type %T", a)
	}
}

// UnmarshalAction decodes an action by its kind discriminator.
func UnmarshalAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	switch env.Kind {
	case KindSetLayerConstraint:
		var a SetLayerConstraintAction
		err := json.Unmarshal(data, &a)
		return a, err
	case KindSetPositionConstraint:
		var a SetPositionConstraintAction
		err := json.Unmarshal(data, &a)
		return a, err
	case KindSetStaticConstraint:
		var a SetStaticConstraintAction
		err := json.Unmarshal(data, &a)
		return a, err
	case KindRefresh:
		return RefreshAction{}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", env.Kind)
	}
}
